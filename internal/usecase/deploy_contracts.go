package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// Outcome classifies how a pipeline run ended
type Outcome string

const (
	OutcomeSuccess              Outcome = "success"
	OutcomeConfigError          Outcome = "config_error"
	OutcomePlanError            Outcome = "plan_error"
	OutcomeUnresolvedDependency Outcome = "unresolved_dependency"
	OutcomeDeploymentError      Outcome = "deployment_error"
	OutcomePersistError         Outcome = "persist_error"
	OutcomeCanceled             Outcome = "canceled"
	OutcomeFailed               Outcome = "failed"
)

// ExitCode maps the outcome to a process exit status
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeSuccess:
		return 0
	case OutcomeConfigError:
		return 2
	case OutcomePlanError, OutcomeUnresolvedDependency:
		return 3
	case OutcomeDeploymentError:
		return 4
	case OutcomePersistError:
		return 5
	case OutcomeCanceled:
		return 130
	default:
		return 1
	}
}

// PersistError wraps a failure to write the deployment record after all contracts were deployed
type PersistError struct {
	Network string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("network %s: contracts deployed but record not saved: %v", e.Network, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// ClassifyError returns the outcome for an error returned by the pipeline
func ClassifyError(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}

	var (
		configErr     *domain.ConfigError
		planErr       *domain.PlanError
		unresolvedErr *domain.UnresolvedDependencyError
		deployErr     *domain.DeploymentError
		persistErr    *PersistError
	)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case errors.As(err, &configErr), errors.Is(err, domain.ErrUnknownNetwork):
		return OutcomeConfigError
	case errors.As(err, &planErr):
		return OutcomePlanError
	case errors.As(err, &unresolvedErr):
		return OutcomeUnresolvedDependency
	case errors.As(err, &deployErr):
		return OutcomeDeploymentError
	case errors.As(err, &persistErr):
		return OutcomePersistError
	default:
		return OutcomeFailed
	}
}

// DeployContractsParams contains parameters for a pipeline run
type DeployContractsParams struct {
	Network string
	// Confirm is called once config and plan are valid, before any chain access.
	// A non-nil error aborts the run.
	Confirm func(ctx context.Context, profile *domain.NetworkProfile) error
}

// DeployContractsResult describes a finished run, successful or not
type DeployContractsResult struct {
	Outcome  Outcome
	Profile  *domain.NetworkProfile
	Deployer common.Address
	Plan     *DeploymentPlan
	// Deployed lists confirmed contracts, including those confirmed before a failure
	Deployed []models.DeployedContract
	Record   *models.DeploymentRecord
	Warnings []error
	Err      error
}

// DeployContracts is the deployment pipeline: validate config, check balance,
// deploy the plan in order, persist the record.
type DeployContracts struct {
	cfg       *config.RuntimeConfig
	networks  NetworkRegistry
	plans     PlanSource
	connector ChainConnector
	validator *ConfigValidator
	guard     *BalanceGuard
	sequencer *DeploymentSequencer
	persister *ArtifactPersister
	progress  ProgressSink
	now       Clock
	log       *slog.Logger
}

// NewDeployContracts creates a new DeployContracts use case
func NewDeployContracts(
	cfg *config.RuntimeConfig,
	networks NetworkRegistry,
	plans PlanSource,
	connector ChainConnector,
	validator *ConfigValidator,
	guard *BalanceGuard,
	sequencer *DeploymentSequencer,
	persister *ArtifactPersister,
	progress ProgressSink,
	now Clock,
	log *slog.Logger,
) *DeployContracts {
	return &DeployContracts{
		cfg:       cfg,
		networks:  networks,
		plans:     plans,
		connector: connector,
		validator: validator,
		guard:     guard,
		sequencer: sequencer,
		persister: persister,
		progress:  progress,
		now:       now,
		log:       log.With("component", "pipeline"),
	}
}

// Run executes the pipeline. The result is always non-nil and its Outcome tells
// the caller how the run ended; the error is the fatal error, if any.
func (uc *DeployContracts) Run(ctx context.Context, params DeployContractsParams) (*DeployContractsResult, error) {
	result := &DeployContractsResult{}
	fail := func(err error) (*DeployContractsResult, error) {
		result.Err = err
		result.Outcome = ClassifyError(err)
		uc.log.Error("deployment pipeline failed", "network", params.Network, "outcome", result.Outcome, "err", err)
		return result, err
	}

	if params.Network == "" {
		return fail(&domain.ConfigError{Key: "network", Reason: domain.ConfigReasonMissing})
	}

	profile := uc.networks.Lookup(params.Network)
	result.Profile = profile
	uc.log.Debug("resolved network profile", "network", profile.Name, "requires_credentials", profile.RequiresCredentials)

	if err := uc.validator.Validate(profile, uc.cfg.Env); err != nil {
		return fail(err)
	}

	specs, err := uc.plans.LoadSpecs(ctx)
	if err != nil {
		return fail(err)
	}
	plan, err := NewPlan(specs)
	if err != nil {
		return fail(err)
	}
	result.Plan = plan

	if params.Confirm != nil {
		if err := params.Confirm(ctx, profile); err != nil {
			return fail(err)
		}
	}

	connecting := fmt.Sprintf("Connecting to %s", profile.Name)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "connecting", Message: connecting, Spinner: true})
	chain, err := uc.connector.Connect(ctx, ConnectParams{
		Profile:     profile,
		PrivateKey:  uc.signerKey(profile),
		APIKey:      uc.cfg.Env[config.EnvAPIKey],
		RPCOverride: uc.cfg.RPCOverride,
	})
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "failed", Message: connecting})
		return fail(fmt.Errorf("failed to connect to %s: %w", profile.Name, err))
	}

	deployer, err := chain.ResolveSigners(ctx)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "failed", Message: connecting})
		return fail(fmt.Errorf("failed to resolve deployer on %s: %w", profile.Name, err))
	}
	result.Deployer = deployer

	if warning := uc.guard.Check(ctx, chain, profile, deployer); warning != nil {
		result.Warnings = append(result.Warnings, warning)
	}

	dctx := &DeploymentContext{Profile: profile, Deployer: deployer, Chain: chain}
	sequenced, err := uc.sequencer.Run(ctx, dctx, plan)
	if sequenced != nil {
		result.Deployed = sequenced.Deployed
	}
	if err != nil {
		return fail(err)
	}

	record, err := uc.persister.Persist(ctx, profile.Name, deployer, sequenced.Deployed, uc.now)
	if err != nil {
		return fail(&PersistError{Network: profile.Name, Err: err})
	}
	result.Record = record
	result.Outcome = OutcomeSuccess

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "completed", Total: plan.Len(), Current: plan.Len()})
	return result, nil
}

// signerKey returns the deployer key handed to the connector. Networks without
// credentials ignore DEPLOYER_PRIVATE_KEY unless UseEnvKeyLocally is set.
func (uc *DeployContracts) signerKey(profile *domain.NetworkProfile) string {
	key := uc.cfg.Env[config.EnvPrivateKey]
	if profile.RequiresCredentials || uc.cfg.UseEnvKeyLocally {
		return key
	}
	if key != "" {
		uc.log.Debug("ignoring deployer key on local network", "network", profile.Name)
	}
	return ""
}
