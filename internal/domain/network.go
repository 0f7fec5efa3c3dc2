package domain

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// APIKeyPlaceholder is substituted with the API-access key inside RPC URL templates
const APIKeyPlaceholder = "{apiKey}"

var printer = message.NewPrinter(language.English)

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// NetworkProfile describes a deployment target and what it takes to deploy there
type NetworkProfile struct {
	Name                string
	ChainID             uint64
	RPCURL              string
	RequiresCredentials bool
	MinBalance          *big.Int // wei
	FaucetHint          string
	ExplorerURL         string
}

// UnknownNetworkProfile is the profile used for names missing from the registry
func UnknownNetworkProfile(name string) *NetworkProfile {
	return &NetworkProfile{
		Name:       strings.ToLower(name),
		MinBalance: new(big.Int),
	}
}

// ResolveRPCURL returns the endpoint to dial. An explicit override always wins;
// otherwise the API key is substituted into the profile's URL template.
func (p *NetworkProfile) ResolveRPCURL(apiKey, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if p.RPCURL == "" {
		return "", fmt.Errorf("%w: no RPC URL configured for %s", ErrUnknownNetwork, p.Name)
	}
	if strings.Contains(p.RPCURL, APIKeyPlaceholder) {
		if apiKey == "" {
			return "", fmt.Errorf("RPC URL for %s needs an API key", p.Name)
		}
		return strings.ReplaceAll(p.RPCURL, APIKeyPlaceholder, apiKey), nil
	}
	return p.RPCURL, nil
}

// Threshold returns the minimum balance, treating nil as zero
func (p *NetworkProfile) Threshold() *big.Int {
	if p.MinBalance == nil {
		return new(big.Int)
	}
	return p.MinBalance
}

// ParseEther converts a decimal ether amount such as "0.05" into wei
func ParseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return new(big.Int), nil
	}
	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("invalid ether amount %q", amount)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("ether amount %q must not be negative", amount)
	}
	r.Mul(r, new(big.Rat).SetInt(weiPerEther))
	if !r.IsInt() {
		return nil, fmt.Errorf("ether amount %q has more than 18 decimals", amount)
	}
	return new(big.Int).Set(r.Num()), nil
}

// FormatEther renders a wei amount as a decimal ether string
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	r := new(big.Rat).SetFrac(wei, weiPerEther)
	s := r.FloatString(18)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatWei renders a wei amount with thousands separators, e.g. "50,000,000,000,000,000"
func FormatWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	if wei.IsInt64() {
		return printer.Sprintf("%d", wei.Int64())
	}
	s := wei.String()
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 && s[i-1] != '-' {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
