package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// ArtifactPersister writes the record of a completed run. Each call replaces the
// previous record for the same network.
type ArtifactPersister struct {
	records RecordRepository
	log     *slog.Logger
}

// NewArtifactPersister creates a new ArtifactPersister
func NewArtifactPersister(records RecordRepository, log *slog.Logger) *ArtifactPersister {
	return &ArtifactPersister{
		records: records,
		log:     log.With("component", "persister"),
	}
}

// Persist builds the DeploymentRecord and stores it
func (p *ArtifactPersister) Persist(ctx context.Context, network string, deployer common.Address, deployed []models.DeployedContract, now Clock) (*models.DeploymentRecord, error) {
	record := models.NewDeploymentRecord(network, deployer, deployed, now())

	if err := p.records.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save deployment record for %s: %w", network, err)
	}

	p.log.Info("deployment record saved", "network", network, "contracts", len(record.Contracts))
	return record, nil
}
