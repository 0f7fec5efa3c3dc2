package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// DeploymentContext carries everything a run needs. It is built once per run
// and passed explicitly to each component.
type DeploymentContext struct {
	Profile  *domain.NetworkProfile
	Deployer common.Address
	Chain    ChainClient
}

// SequenceResult holds the contracts deployed by a run, in deployment order.
// On failure it holds the contracts that were confirmed before the failing step.
type SequenceResult struct {
	Deployed  []models.DeployedContract
	Addresses models.ContractAddresses
}

// DeploymentSequencer deploys the specs of a plan one by one, waiting for each
// confirmation so later constructors can receive real addresses.
type DeploymentSequencer struct {
	progress ProgressSink
	now      Clock
	log      *slog.Logger
}

// NewDeploymentSequencer creates a new DeploymentSequencer
func NewDeploymentSequencer(progress ProgressSink, now Clock, log *slog.Logger) *DeploymentSequencer {
	return &DeploymentSequencer{
		progress: progress,
		now:      now,
		log:      log.With("component", "sequencer"),
	}
}

// Run executes the plan in order and stops at the first failing step. Nothing is
// retried and nothing already deployed is undone.
func (s *DeploymentSequencer) Run(ctx context.Context, dctx *DeploymentContext, plan *DeploymentPlan) (*SequenceResult, error) {
	result := &SequenceResult{
		Deployed:  make([]models.DeployedContract, 0, plan.Len()),
		Addresses: make(models.ContractAddresses, 0, plan.Len()),
	}

	specs := plan.Specs()
	for i := range specs {
		spec := &specs[i]

		if err := ctx.Err(); err != nil {
			return result, err
		}

		s.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "deploying",
			Current: i + 1,
			Total:   len(specs),
			Message: fmt.Sprintf("Deploying %s (%d/%d)", spec.Name, i+1, len(specs)),
		})

		deployed, err := s.deployStep(ctx, dctx, spec, result.Addresses)
		if err != nil {
			s.progress.OnProgress(ctx, ProgressEvent{Stage: "failed", Current: i + 1, Total: len(specs), Message: spec.Name})
			return result, err
		}

		result.Deployed = append(result.Deployed, *deployed)
		result.Addresses = append(result.Addresses, models.ContractAddress{Name: deployed.Name, Address: deployed.Address})

		s.progress.OnProgress(ctx, ProgressEvent{
			Stage:    "confirmed",
			Current:  i + 1,
			Total:    len(specs),
			Message:  fmt.Sprintf("%s deployed at %s", deployed.Name, deployed.Address.Hex()),
			Metadata: deployed,
		})
	}

	return result, nil
}

func (s *DeploymentSequencer) deployStep(ctx context.Context, dctx *DeploymentContext, spec *models.ContractSpec, resolved models.ContractAddresses) (*models.DeployedContract, error) {
	args, err := ResolveArgs(spec, resolved)
	if err != nil {
		return nil, err
	}

	log := s.log.With("contract", spec.Name, "network", dctx.Profile.Name)
	log.Debug("submitting deployment", "args", args)

	pending, err := dctx.Chain.DeployContract(ctx, spec, args)
	if err != nil {
		return nil, s.deploymentError(ctx, dctx, spec, domain.StageSubmit, err)
	}

	log.Info("deployment transaction sent", "tx_hash", pending.TxHash.Hex())
	s.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "submitted",
		Message: fmt.Sprintf("Waiting for %s confirmation (tx %s)", spec.Name, pending.TxHash.Hex()),
		Spinner: true,
	})

	address, err := dctx.Chain.AwaitConfirmation(ctx, pending)
	if err != nil {
		return nil, s.deploymentError(ctx, dctx, spec, domain.StageConfirm, err)
	}

	log.Info("contract deployed", "address", address.Hex())

	return &models.DeployedContract{
		Name:       spec.Name,
		Address:    address,
		TxHash:     pending.TxHash,
		Args:       args,
		DeployedAt: s.now().UTC(),
	}, nil
}

func (s *DeploymentSequencer) deploymentError(ctx context.Context, dctx *DeploymentContext, spec *models.ContractSpec, stage domain.DeploymentStage, err error) error {
	// cancellation is reported as such, not as a chain failure
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	return &domain.DeploymentError{
		Network:  dctx.Profile.Name,
		Contract: spec.Name,
		Stage:    stage,
		Err:      err,
	}
}

// ResolveArgs substitutes every reference in the spec's constructor arguments with
// the address already recorded for it.
func ResolveArgs(spec *models.ContractSpec, resolved models.ContractAddresses) ([]any, error) {
	for _, dep := range spec.DependsOn {
		if _, ok := resolved.Get(dep); !ok {
			return nil, &domain.UnresolvedDependencyError{Contract: spec.Name, Reference: dep}
		}
	}

	args := make([]any, len(spec.Args))
	for i, arg := range spec.Args {
		if !arg.IsRef() {
			args[i] = arg.Literal
			continue
		}
		if arg.Ref == spec.Name {
			return nil, &domain.UnresolvedDependencyError{Contract: spec.Name, Reference: arg.Ref}
		}
		address, ok := resolved.Get(arg.Ref)
		if !ok {
			return nil, &domain.UnresolvedDependencyError{Contract: spec.Name, Reference: arg.Ref}
		}
		args[i] = address
	}
	return args, nil
}
