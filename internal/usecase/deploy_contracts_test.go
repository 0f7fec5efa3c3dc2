package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const testPrivateKey = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

type pipelineFixture struct {
	cfg       *config.RuntimeConfig
	connector *MockChainConnector
	chain     *MockChainClient
	records   *MockRecordRepository
	sink      *MockProgressSink
	plan      *staticPlan
}

func newPipelineFixture(env map[string]string) *pipelineFixture {
	return &pipelineFixture{
		cfg:       &config.RuntimeConfig{Env: env},
		connector: &MockChainConnector{},
		chain:     &MockChainClient{},
		records:   &MockRecordRepository{},
		sink:      &MockProgressSink{},
		plan:      &staticPlan{specs: governanceSpecs()},
	}
}

func (f *pipelineFixture) useCase() *usecase.DeployContracts {
	log := discardLogger()
	registry := &stubRegistry{profiles: []*domain.NetworkProfile{localProfile(), sepoliaProfile()}}
	return usecase.NewDeployContracts(
		f.cfg,
		registry,
		f.plan,
		f.connector,
		usecase.NewConfigValidator(),
		usecase.NewBalanceGuard(f.sink, log),
		usecase.NewDeploymentSequencer(f.sink, fixedClock, log),
		usecase.NewArtifactPersister(f.records, log),
		f.sink,
		fixedClock,
		log,
	)
}

func (f *pipelineFixture) expectConnect() {
	f.connector.On("Connect", mock.Anything, mock.Anything).Return(f.chain, nil).Once()
	f.chain.On("ResolveSigners", mock.Anything).Return(deployerAddr, nil).Once()
}

func (f *pipelineFixture) expectGovernanceSuite() {
	f.chain.expectDeploy("VotingToken", []any{"Civic Vote", "CVT"}, tokenAddr)
	f.chain.expectDeploy("Timelock", []any{172800}, timelockAddr)
	f.chain.expectDeploy("Governor", []any{tokenAddr, timelockAddr}, governorAddr)
}

func TestDeployContracts(t *testing.T) {
	ctx := context.Background()

	t.Run("local network needs no credentials and skips the balance check", func(t *testing.T) {
		f := newPipelineFixture(map[string]string{})
		f.expectConnect()
		f.expectGovernanceSuite()
		f.records.On("Save", mock.Anything, mock.AnythingOfType("*models.DeploymentRecord")).Return(nil).Once()

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "localhost"})
		require.NoError(t, err)

		assert.Equal(t, usecase.OutcomeSuccess, result.Outcome)
		assert.Equal(t, 0, result.Outcome.ExitCode())
		assert.Empty(t, result.Warnings)
		f.chain.AssertNotCalled(t, "GetBalance", mock.Anything, mock.Anything)

		record := result.Record
		require.NotNil(t, record)
		assert.Equal(t, "localhost", record.Network)
		assert.Equal(t, deployerAddr, record.Deployer)
		assert.Equal(t, fixedTime, record.Timestamp)
		assert.Equal(t, []string{"VotingToken", "Timelock", "Governor"}, record.Contracts.Names())
		governor, ok := record.Contracts.Get("Governor")
		require.True(t, ok)
		assert.Equal(t, governorAddr, governor)

		assert.Equal(t, "completed", f.sink.events[len(f.sink.events)-1].Stage)
		f.chain.AssertExpectations(t)
		f.records.AssertExpectations(t)
	})

	t.Run("unknown network is treated as local", func(t *testing.T) {
		f := newPipelineFixture(nil)
		f.expectConnect()
		f.expectGovernanceSuite()
		f.records.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "devnet"})
		require.NoError(t, err)
		assert.Equal(t, "devnet", result.Record.Network)
		f.chain.AssertNotCalled(t, "GetBalance", mock.Anything, mock.Anything)
	})

	t.Run("local network ignores deployer key from the environment", func(t *testing.T) {
		for _, keyHex := range []string{"your_private_key_here", "0xnothex", testPrivateKey} {
			f := newPipelineFixture(map[string]string{config.EnvPrivateKey: keyHex})
			f.connector.On("Connect", mock.Anything, usecase.ConnectParams{Profile: localProfile()}).Return(f.chain, nil).Once()
			f.chain.On("ResolveSigners", mock.Anything).Return(deployerAddr, nil).Once()
			f.expectGovernanceSuite()
			f.records.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

			result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "localhost"})
			require.NoError(t, err, keyHex)
			assert.Equal(t, usecase.OutcomeSuccess, result.Outcome)
			assert.Equal(t, 0, result.Outcome.ExitCode())
			f.connector.AssertExpectations(t)
		}
	})

	t.Run("local network uses the environment key when asked to", func(t *testing.T) {
		f := newPipelineFixture(map[string]string{config.EnvPrivateKey: testPrivateKey})
		f.cfg.UseEnvKeyLocally = true
		f.connector.On("Connect", mock.Anything, usecase.ConnectParams{Profile: localProfile(), PrivateKey: testPrivateKey}).Return(f.chain, nil).Once()
		f.chain.On("ResolveSigners", mock.Anything).Return(deployerAddr, nil).Once()
		f.expectGovernanceSuite()
		f.records.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "localhost"})
		require.NoError(t, err)
		f.connector.AssertExpectations(t)
	})

	t.Run("confirmation runs after validation", func(t *testing.T) {
		confirmed := 0
		confirm := func(context.Context, *domain.NetworkProfile) error {
			confirmed++
			return nil
		}

		f := newPipelineFixture(map[string]string{config.EnvAPIKey: "abc123"})
		_, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "sepolia", Confirm: confirm})
		require.Error(t, err)
		assert.Equal(t, 0, confirmed)

		f = newPipelineFixture(nil)
		f.plan.specs = []models.ContractSpec{{Name: "Governor", DependsOn: []string{"Timelock"}}, {Name: "Timelock"}}
		_, err = f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "localhost", Confirm: confirm})
		require.Error(t, err)
		assert.Equal(t, 0, confirmed)
	})

	t.Run("declined confirmation cancels before connecting", func(t *testing.T) {
		f := newPipelineFixture(map[string]string{
			config.EnvPrivateKey: testPrivateKey,
			config.EnvAPIKey:     "abc123",
		})
		var asked *domain.NetworkProfile
		confirm := func(_ context.Context, profile *domain.NetworkProfile) error {
			asked = profile
			return context.Canceled
		}

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "sepolia", Confirm: confirm})
		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, asked)
		assert.Equal(t, "sepolia", asked.Name)
		assert.Equal(t, usecase.OutcomeCanceled, result.Outcome)
		f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
	})

	t.Run("connect failure stops the progress spinner", func(t *testing.T) {
		f := newPipelineFixture(nil)
		f.connector.On("Connect", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()

		_, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "localhost"})
		require.Error(t, err)
		assert.Equal(t, []string{"connecting", "failed"}, f.sink.stages())
	})

	t.Run("signer failure stops the progress spinner", func(t *testing.T) {
		f := newPipelineFixture(nil)
		f.connector.On("Connect", mock.Anything, mock.Anything).Return(f.chain, nil).Once()
		f.chain.On("ResolveSigners", mock.Anything).Return(common.Address{}, errors.New("locked")).Once()

		_, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "localhost"})
		require.Error(t, err)
		assert.Equal(t, []string{"connecting", "failed"}, f.sink.stages())
	})

	t.Run("missing credential fails before any chain call", func(t *testing.T) {
		f := newPipelineFixture(map[string]string{config.EnvAPIKey: "abc123"})

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "sepolia"})
		require.Error(t, err)

		var configErr *domain.ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, config.EnvPrivateKey, configErr.Key)
		assert.Equal(t, domain.ConfigReasonMissing, configErr.Reason)
		assert.Equal(t, "sepolia", configErr.Network)

		assert.Equal(t, usecase.OutcomeConfigError, result.Outcome)
		assert.Equal(t, 2, result.Outcome.ExitCode())
		f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
		f.records.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("placeholder credential is rejected", func(t *testing.T) {
		f := newPipelineFixture(map[string]string{
			config.EnvPrivateKey: "YOUR_PRIVATE_KEY_HERE",
			config.EnvAPIKey:     "abc123",
		})

		_, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "sepolia"})

		var configErr *domain.ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, domain.ConfigReasonPlaceholder, configErr.Reason)
		f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
	})

	t.Run("low balance warns but still deploys", func(t *testing.T) {
		f := newPipelineFixture(map[string]string{
			config.EnvPrivateKey: testPrivateKey,
			config.EnvAPIKey:     "abc123",
		})
		f.connector.On("Connect", mock.Anything, usecase.ConnectParams{
			Profile:    sepoliaProfile(),
			PrivateKey: testPrivateKey,
			APIKey:     "abc123",
		}).Return(f.chain, nil).Once()
		f.chain.On("ResolveSigners", mock.Anything).Return(deployerAddr, nil).Once()
		f.chain.On("GetBalance", mock.Anything, deployerAddr).Return(ether("0.01"), nil).Once()
		f.expectGovernanceSuite()
		f.records.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "sepolia"})
		require.NoError(t, err)

		assert.Equal(t, usecase.OutcomeSuccess, result.Outcome)
		require.Len(t, result.Warnings, 1)

		var warning *domain.InsufficientBalanceWarning
		require.ErrorAs(t, result.Warnings[0], &warning)
		assert.Equal(t, ether("0.01"), warning.Balance)
		assert.Equal(t, ether("0.05"), warning.Required)
		assert.Equal(t, "https://sepoliafaucet.com", warning.FaucetHint)

		require.Len(t, f.sink.warnings, 1)
		assert.Contains(t, f.sink.warnings[0], "https://sepoliafaucet.com")
		f.connector.AssertExpectations(t)
		f.chain.AssertExpectations(t)
	})

	t.Run("failure mid-run writes no record", func(t *testing.T) {
		f := newPipelineFixture(nil)
		f.expectConnect()
		f.chain.expectDeploy("VotingToken", []any{"Civic Vote", "CVT"}, tokenAddr)
		f.chain.On("DeployContract", mock.Anything, "Timelock", []any{172800}).Return(nil, errors.New("nonce too low")).Once()

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "localhost"})
		require.Error(t, err)

		assert.Equal(t, usecase.OutcomeDeploymentError, result.Outcome)
		assert.Equal(t, 4, result.Outcome.ExitCode())
		require.Len(t, result.Deployed, 1)
		assert.Equal(t, tokenAddr, result.Deployed[0].Address)
		assert.Nil(t, result.Record)
		f.records.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("record write failure is a persist error", func(t *testing.T) {
		f := newPipelineFixture(nil)
		f.expectConnect()
		f.expectGovernanceSuite()
		f.records.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "localhost"})
		require.Error(t, err)

		var persistErr *usecase.PersistError
		require.ErrorAs(t, err, &persistErr)
		assert.Equal(t, "localhost", persistErr.Network)
		assert.Equal(t, usecase.OutcomePersistError, result.Outcome)
		assert.Len(t, result.Deployed, 3)
	})

	t.Run("invalid plan fails before connecting", func(t *testing.T) {
		f := newPipelineFixture(nil)
		f.plan.specs = []models.ContractSpec{{Name: "Governor", DependsOn: []string{"Timelock"}}, {Name: "Timelock"}}

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "localhost"})
		require.Error(t, err)
		assert.Equal(t, usecase.OutcomePlanError, result.Outcome)
		assert.Equal(t, 3, result.Outcome.ExitCode())
		f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
	})

	t.Run("empty network is a config error", func(t *testing.T) {
		f := newPipelineFixture(nil)

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{})
		require.Error(t, err)
		assert.Equal(t, usecase.OutcomeConfigError, result.Outcome)
	})

	t.Run("unreachable unknown network is a config error", func(t *testing.T) {
		f := newPipelineFixture(nil)
		f.connector.On("Connect", mock.Anything, mock.Anything).
			Return(nil, domain.ErrUnknownNetwork).Once()

		result, err := f.useCase().Run(ctx, usecase.DeployContractsParams{Network: "nowhere"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownNetwork)
		assert.Equal(t, usecase.OutcomeConfigError, result.Outcome)
	})
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want usecase.Outcome
		code int
	}{
		{"nil", nil, usecase.OutcomeSuccess, 0},
		{"config", &domain.ConfigError{Key: "x"}, usecase.OutcomeConfigError, 2},
		{"plan", &domain.PlanError{Reason: "x"}, usecase.OutcomePlanError, 3},
		{"unresolved", &domain.UnresolvedDependencyError{Contract: "a", Reference: "b"}, usecase.OutcomeUnresolvedDependency, 3},
		{"deployment", &domain.DeploymentError{Err: errors.New("x")}, usecase.OutcomeDeploymentError, 4},
		{"persist", &usecase.PersistError{Err: errors.New("x")}, usecase.OutcomePersistError, 5},
		{"canceled", context.Canceled, usecase.OutcomeCanceled, 130},
		{"deadline inside deployment", &domain.DeploymentError{Err: context.DeadlineExceeded}, usecase.OutcomeCanceled, 130},
		{"other", errors.New("boom"), usecase.OutcomeFailed, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.ClassifyError(tt.err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.code, got.ExitCode())
		})
	}
}

