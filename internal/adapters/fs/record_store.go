package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const recordExt = ".json"

// RecordStoreAdapter keeps one JSON deployment record per network
type RecordStoreAdapter struct {
	dir string
}

// NewRecordStoreAdapter creates a store in cfg.RecordsDir
func NewRecordStoreAdapter(cfg *config.RuntimeConfig) *RecordStoreAdapter {
	return &RecordStoreAdapter{dir: cfg.RecordsDir}
}

// Dir returns the directory records are written to
func (s *RecordStoreAdapter) Dir() string {
	return s.dir
}

func (s *RecordStoreAdapter) recordPath(network string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(network))
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid network name %q for a record file", network)
	}
	return filepath.Join(s.dir, name+recordExt), nil
}

// Save replaces the record for record.Network. The file is written to a
// temporary sibling and renamed, so readers never see a partial record.
func (s *RecordStoreAdapter) Save(_ context.Context, record *models.DeploymentRecord) error {
	path, err := s.recordPath(record.Network)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create records directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deployment record: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary record file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write deployment record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync deployment record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close deployment record: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set record permissions: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace deployment record: %w", err)
	}

	return nil
}

// Load reads the record for network. Returns domain.ErrNotFound if none exists.
func (s *RecordStoreAdapter) Load(_ context.Context, network string) (*models.DeploymentRecord, error) {
	path, err := s.recordPath(network)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read deployment record: %w", err)
	}

	var record models.DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse deployment record %s: %w", path, err)
	}

	return &record, nil
}

// List returns the networks that have a record, sorted by name
func (s *RecordStoreAdapter) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read records directory: %w", err)
	}

	var networks []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != recordExt {
			continue
		}
		networks = append(networks, strings.TrimSuffix(name, recordExt))
	}
	sort.Strings(networks)

	return networks, nil
}

// Ensure RecordStoreAdapter implements RecordRepository
var _ usecase.RecordRepository = (*RecordStoreAdapter)(nil)
