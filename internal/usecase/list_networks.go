package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/catapult/internal/domain"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Currently no parameters, but we keep the struct for future extensibility
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus pairs a profile with the state of its persisted record
type NetworkStatus struct {
	Profile   *domain.NetworkProfile
	HasRecord bool
}

// ListNetworks is a use case for listing known network profiles
type ListNetworks struct {
	networks NetworkRegistry
	records  RecordRepository
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(networks NetworkRegistry, records RecordRepository) *ListNetworks {
	return &ListNetworks{
		networks: networks,
		records:  records,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	recorded, err := uc.records.List(ctx)
	if err != nil {
		return nil, err
	}
	hasRecord := make(map[string]bool, len(recorded))
	for _, name := range recorded {
		hasRecord[name] = true
	}

	profiles := uc.networks.List()
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].RequiresCredentials != profiles[j].RequiresCredentials {
			return !profiles[i].RequiresCredentials
		}
		return profiles[i].Name < profiles[j].Name
	})

	networks := make([]NetworkStatus, 0, len(profiles))
	for _, profile := range profiles {
		networks = append(networks, NetworkStatus{
			Profile:   profile,
			HasRecord: hasRecord[profile.Name],
		})
	}

	return &ListNetworksResult{Networks: networks}, nil
}
