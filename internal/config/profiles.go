package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// NetworksTOML represents the raw networks.toml structure
type NetworksTOML struct {
	Networks map[string]NetworkTOML `toml:"networks"`
}

// NetworkTOML is one [networks.<name>] table. Unset fields keep the value of
// the built-in profile with the same name.
type NetworkTOML struct {
	ChainID             *uint64 `toml:"chain_id"`
	RPCURL              string  `toml:"rpc_url"`
	RequiresCredentials *bool   `toml:"requires_credentials"`
	MinBalance          string  `toml:"min_balance"`
	Faucet              string  `toml:"faucet"`
	Explorer            string  `toml:"explorer"`
}

// LoadNetworkProfiles reads networks.toml and applies each table on top of the
// profile base returns for its name. A missing file yields no profiles.
func LoadNetworkProfiles(path string, base func(name string) *domain.NetworkProfile) ([]*domain.NetworkProfile, error) {
	if path == "" {
		return nil, nil
	}

	var raw NetworksTOML
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	names := make([]string, 0, len(raw.Networks))
	for name := range raw.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := make([]*domain.NetworkProfile, 0, len(names))
	for _, name := range names {
		profile, err := applyNetworkTOML(base(name), raw.Networks[name])
		if err != nil {
			return nil, fmt.Errorf("%s: network %s: %w", path, name, err)
		}
		profile.Name = strings.ToLower(name)
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

func applyNetworkTOML(base *domain.NetworkProfile, entry NetworkTOML) (*domain.NetworkProfile, error) {
	profile := *base

	if entry.ChainID != nil {
		profile.ChainID = *entry.ChainID
	}
	if entry.RPCURL != "" {
		profile.RPCURL = os.ExpandEnv(entry.RPCURL)
	}
	if entry.RequiresCredentials != nil {
		profile.RequiresCredentials = *entry.RequiresCredentials
	}
	if entry.MinBalance != "" {
		wei, err := domain.ParseEther(entry.MinBalance)
		if err != nil {
			return nil, fmt.Errorf("min_balance: %w", err)
		}
		profile.MinBalance = wei
	}
	if entry.Faucet != "" {
		profile.FaucetHint = entry.Faucet
	}
	if entry.Explorer != "" {
		profile.ExplorerURL = entry.Explorer
	}

	return &profile, nil
}
