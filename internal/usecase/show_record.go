package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// ShowRecordParams contains parameters for showing a deployment record
type ShowRecordParams struct {
	Network string
}

// ShowRecordResult contains the persisted record and the profile it belongs to
type ShowRecordResult struct {
	Profile *domain.NetworkProfile
	Record  *models.DeploymentRecord
}

// ShowRecord loads the last successful deployment for a network
type ShowRecord struct {
	networks NetworkRegistry
	records  RecordRepository
}

// NewShowRecord creates a new ShowRecord use case
func NewShowRecord(networks NetworkRegistry, records RecordRepository) *ShowRecord {
	return &ShowRecord{
		networks: networks,
		records:  records,
	}
}

// Run executes the use case
func (uc *ShowRecord) Run(ctx context.Context, params ShowRecordParams) (*ShowRecordResult, error) {
	if params.Network == "" {
		return nil, &domain.ConfigError{Key: "network", Reason: domain.ConfigReasonMissing}
	}

	profile := uc.networks.Lookup(params.Network)
	record, err := uc.records.Load(ctx, profile.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no deployment recorded for network %s: %w", profile.Name, err)
		}
		return nil, err
	}

	return &ShowRecordResult{Profile: profile, Record: record}, nil
}
