package network

import (
	"math/big"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/catapult/internal/domain"
)

const localRPCURL = "http://127.0.0.1:8545"

// Registry is the immutable set of known network profiles
type Registry struct {
	profiles map[string]*domain.NetworkProfile
}

// NewRegistry creates a registry with the built-in profiles. Overlay entries
// replace built-ins of the same name or add new ones.
func NewRegistry(overlay ...*domain.NetworkProfile) *Registry {
	r := &Registry{profiles: make(map[string]*domain.NetworkProfile)}

	for _, profile := range defaultProfiles() {
		r.add(profile)
	}
	for _, profile := range overlay {
		r.add(profile)
	}

	return r
}

func defaultProfiles() []*domain.NetworkProfile {
	return []*domain.NetworkProfile{
		{Name: "hardhat", ChainID: 31337, RPCURL: localRPCURL, MinBalance: new(big.Int)},
		{Name: "localhost", ChainID: 31337, RPCURL: localRPCURL, MinBalance: new(big.Int)},
		{Name: "anvil", ChainID: 31337, RPCURL: localRPCURL, MinBalance: new(big.Int)},
		{
			Name:                "sepolia",
			ChainID:             11155111,
			RPCURL:              "https://eth-sepolia.g.alchemy.com/v2/" + domain.APIKeyPlaceholder,
			RequiresCredentials: true,
			MinBalance:          mustEther("0.05"),
			FaucetHint:          "https://sepoliafaucet.com",
			ExplorerURL:         "https://sepolia.etherscan.io",
		},
		{
			Name:                "holesky",
			ChainID:             17000,
			RPCURL:              "https://eth-holesky.g.alchemy.com/v2/" + domain.APIKeyPlaceholder,
			RequiresCredentials: true,
			MinBalance:          mustEther("0.05"),
			FaucetHint:          "https://holesky-faucet.pk910.de",
			ExplorerURL:         "https://holesky.etherscan.io",
		},
		{
			Name:                "amoy",
			ChainID:             80002,
			RPCURL:              "https://polygon-amoy.g.alchemy.com/v2/" + domain.APIKeyPlaceholder,
			RequiresCredentials: true,
			MinBalance:          mustEther("0.1"),
			FaucetHint:          "https://faucet.polygon.technology",
			ExplorerURL:         "https://amoy.polygonscan.com",
		},
		{
			Name:                "mainnet",
			ChainID:             1,
			RPCURL:              "https://eth-mainnet.g.alchemy.com/v2/" + domain.APIKeyPlaceholder,
			RequiresCredentials: true,
			MinBalance:          mustEther("0.1"),
			ExplorerURL:         "https://etherscan.io",
		},
	}
}

func mustEther(amount string) *big.Int {
	wei, err := domain.ParseEther(amount)
	if err != nil {
		panic(err)
	}
	return wei
}

// add stores a profile under its lower-cased name
func (r *Registry) add(profile *domain.NetworkProfile) {
	p := *profile
	p.Name = strings.ToLower(p.Name)
	if p.MinBalance == nil {
		p.MinBalance = new(big.Int)
	}
	r.profiles[p.Name] = &p
}

// Lookup returns the profile for name, case-insensitively. Unknown names get a
// profile that requires no credentials and has a zero balance threshold.
func (r *Registry) Lookup(name string) *domain.NetworkProfile {
	if profile, ok := r.profiles[strings.ToLower(name)]; ok {
		p := *profile
		return &p
	}
	return domain.UnknownNetworkProfile(name)
}

// Known reports whether name is a built-in or configured profile
func (r *Registry) Known(name string) bool {
	_, ok := r.profiles[strings.ToLower(name)]
	return ok
}

// List returns copies of all profiles sorted by name
func (r *Registry) List() []*domain.NetworkProfile {
	profiles := make([]*domain.NetworkProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		p := *profile
		profiles = append(profiles, &p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles
}

// Suggest returns known profile names that fuzzily match name, best first
func (r *Registry) Suggest(name string) []string {
	names := make([]string, 0, len(r.profiles))
	for _, profile := range r.List() {
		names = append(names, profile.Name)
	}

	matches := fuzzy.Find(strings.ToLower(name), names)
	suggestions := make([]string, 0, len(matches))
	for _, match := range matches {
		suggestions = append(suggestions, match.Str)
	}
	return suggestions
}
