package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

var (
	deployerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	tokenAddr    = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	timelockAddr = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	governorAddr = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")

	fixedTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
)

func fixedClock() time.Time { return fixedTime }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ether(amount string) *big.Int {
	wei, err := domain.ParseEther(amount)
	if err != nil {
		panic(err)
	}
	return wei
}

func localProfile() *domain.NetworkProfile {
	return &domain.NetworkProfile{Name: "localhost", ChainID: 31337, RPCURL: "http://127.0.0.1:8545", MinBalance: new(big.Int)}
}

func sepoliaProfile() *domain.NetworkProfile {
	return &domain.NetworkProfile{
		Name:                "sepolia",
		ChainID:             11155111,
		RPCURL:              "https://eth-sepolia.g.alchemy.com/v2/{apiKey}",
		RequiresCredentials: true,
		MinBalance:          ether("0.05"),
		FaucetHint:          "https://sepoliafaucet.com",
	}
}

// governanceSpecs is the canonical three-contract suite
func governanceSpecs() []models.ContractSpec {
	return []models.ContractSpec{
		{Name: "VotingToken", Args: []models.ArgTemplate{models.Literal("Civic Vote"), models.Literal("CVT")}},
		{Name: "Timelock", Args: []models.ArgTemplate{models.Literal(172800)}},
		{
			Name:      "Governor",
			Args:      []models.ArgTemplate{models.Ref("VotingToken"), models.Ref("Timelock")},
			DependsOn: []string{"VotingToken", "Timelock"},
		},
	}
}

// MockChainClient is a mock implementation of ChainClient. Deploy and confirm
// calls are matched on the contract name.
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) ResolveSigners(ctx context.Context) (common.Address, error) {
	args := m.Called(ctx)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockChainClient) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainClient) DeployContract(ctx context.Context, spec *models.ContractSpec, constructorArgs []any) (*usecase.PendingDeployment, error) {
	args := m.Called(ctx, spec.Name, constructorArgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PendingDeployment), args.Error(1)
}

func (m *MockChainClient) AwaitConfirmation(ctx context.Context, pending *usecase.PendingDeployment) (common.Address, error) {
	args := m.Called(ctx, pending.Contract)
	return args.Get(0).(common.Address), args.Error(1)
}

// expectDeploy sets up a successful submit and confirmation for one contract
func (m *MockChainClient) expectDeploy(name string, constructorArgs []any, address common.Address) {
	pending := &usecase.PendingDeployment{
		Contract: name,
		TxHash:   common.BytesToHash(address.Bytes()),
		Args:     constructorArgs,
	}
	m.On("DeployContract", mock.Anything, name, constructorArgs).Return(pending, nil).Once()
	m.On("AwaitConfirmation", mock.Anything, name).Return(address, nil).Once()
}

// MockChainConnector is a mock implementation of ChainConnector
type MockChainConnector struct {
	mock.Mock
}

func (m *MockChainConnector) Connect(ctx context.Context, params usecase.ConnectParams) (usecase.ChainClient, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ChainClient), args.Error(1)
}

// MockRecordRepository is a mock implementation of RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Save(ctx context.Context, record *models.DeploymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Load(ctx context.Context, network string) (*models.DeploymentRecord, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentRecord), args.Error(1)
}

func (m *MockRecordRepository) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockEnvFileWriter is a mock implementation of EnvFileWriter
type MockEnvFileWriter struct {
	mock.Mock
}

func (m *MockEnvFileWriter) Get(key string) (string, bool, error) {
	args := m.Called(key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockEnvFileWriter) Set(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockEnvFileWriter) Path() string {
	return "/project/.env"
}

// staticPlan is a PlanSource returning fixed specs
type staticPlan struct {
	specs []models.ContractSpec
	err   error
}

func (p *staticPlan) LoadSpecs(context.Context) ([]models.ContractSpec, error) {
	return p.specs, p.err
}

func (p *staticPlan) Description() string { return "test plan" }

// stubRegistry is a NetworkRegistry over a fixed set of profiles
type stubRegistry struct {
	profiles []*domain.NetworkProfile
}

func (r *stubRegistry) Lookup(name string) *domain.NetworkProfile {
	for _, p := range r.profiles {
		if p.Name == name {
			return p
		}
	}
	return domain.UnknownNetworkProfile(name)
}

func (r *stubRegistry) Known(name string) bool {
	for _, p := range r.profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (r *stubRegistry) List() []*domain.NetworkProfile {
	return append([]*domain.NetworkProfile(nil), r.profiles...)
}

// MockProgressSink records everything it receives
type MockProgressSink struct {
	events   []usecase.ProgressEvent
	warnings []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string) {}

func (m *MockProgressSink) Warn(message string) {
	m.warnings = append(m.warnings, message)
}

func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) stages() []string {
	stages := make([]string, len(m.events))
	for i, e := range m.events {
		stages[i] = e.Stage
	}
	return stages
}
