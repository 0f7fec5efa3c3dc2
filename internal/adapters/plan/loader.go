package plan

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
	"gopkg.in/yaml.v3"
)

//go:embed default_plan.yaml
var defaultPlan []byte

const builtinDescription = "built-in governance plan"

type planFile struct {
	Contracts []models.ContractSpec `yaml:"contracts"`
}

// LoaderAdapter reads the deployment plan from a YAML file, or the built-in
// plan when no file is configured.
type LoaderAdapter struct {
	path string
}

// NewLoaderAdapter creates a loader for cfg.PlanFile
func NewLoaderAdapter(cfg *config.RuntimeConfig) *LoaderAdapter {
	return &LoaderAdapter{path: cfg.PlanFile}
}

// Description names where the plan comes from
func (l *LoaderAdapter) Description() string {
	if l.path == "" {
		return builtinDescription
	}
	return l.path
}

// LoadSpecs returns the contract specs in file order. Structural checks are
// left to plan construction.
func (l *LoaderAdapter) LoadSpecs(_ context.Context) ([]models.ContractSpec, error) {
	data := defaultPlan
	if l.path != "" {
		var err error
		data, err = os.ReadFile(l.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("plan file %s: %w", l.path, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to read plan file: %w", err)
		}
	}

	specs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Description(), err)
	}
	return specs, nil
}

// Parse decodes a plan document. Unknown fields are rejected.
func Parse(data []byte) ([]models.ContractSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file planFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &domain.PlanError{Reason: "plan is empty"}
		}
		return nil, &domain.PlanError{Reason: err.Error()}
	}

	return file.Contracts, nil
}

// Ensure LoaderAdapter implements PlanSource
var _ usecase.PlanSource = (*LoaderAdapter)(nil)
