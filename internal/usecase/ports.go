package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// NetworkRegistry looks up network profiles by name
type NetworkRegistry interface {
	// Lookup never fails: unknown names yield a profile that requires no credentials
	Lookup(name string) *domain.NetworkProfile
	Known(name string) bool
	List() []*domain.NetworkProfile
}

// PendingDeployment is the handle returned after a deployment transaction is submitted
type PendingDeployment struct {
	Contract string
	TxHash   common.Hash
	Args     []any
	// Handle is adapter-specific state needed to await confirmation
	Handle any
}

// ChainClient is the capability used to talk to the target chain
type ChainClient interface {
	ResolveSigners(ctx context.Context) (common.Address, error)
	GetBalance(ctx context.Context, address common.Address) (*big.Int, error)
	DeployContract(ctx context.Context, spec *models.ContractSpec, args []any) (*PendingDeployment, error)
	AwaitConfirmation(ctx context.Context, pending *PendingDeployment) (common.Address, error)
}

// ChainConnector opens a ChainClient for a network
type ChainConnector interface {
	Connect(ctx context.Context, params ConnectParams) (ChainClient, error)
}

// ConnectParams describes how to reach a network
type ConnectParams struct {
	Profile     *domain.NetworkProfile
	PrivateKey  string
	APIKey      string
	RPCOverride string
}

// RecordRepository persists deployment records, one per network
type RecordRepository interface {
	Save(ctx context.Context, record *models.DeploymentRecord) error
	Load(ctx context.Context, network string) (*models.DeploymentRecord, error)
	List(ctx context.Context) ([]string, error)
}

// PlanSource provides the ordered list of contract specs to deploy
type PlanSource interface {
	LoadSpecs(ctx context.Context) ([]models.ContractSpec, error)
	Description() string
}

// EnvFileWriter stores values in the project .env file
type EnvFileWriter interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Path() string
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// Clock returns the current time
type Clock func() time.Time

// InteractivePrompter asks the user for decisions the flags did not settle
type InteractivePrompter interface {
	SelectNetwork(ctx context.Context, networks []*domain.NetworkProfile) (string, error)
	Confirm(ctx context.Context, message string) (bool, error)
}
