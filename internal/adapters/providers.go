package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/catapult/internal/adapters/chain"
	"github.com/trebuchet-org/catapult/internal/adapters/fs"
	"github.com/trebuchet-org/catapult/internal/adapters/interactive"
	"github.com/trebuchet-org/catapult/internal/adapters/network"
	"github.com/trebuchet-org/catapult/internal/adapters/plan"
	internalconfig "github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// ProvideNetworkRegistry builds the registry from the built-in profiles and
// the project's networks.toml overlay
func ProvideNetworkRegistry(cfg *config.RuntimeConfig) (*network.Registry, error) {
	builtin := network.NewRegistry()
	overlay, err := internalconfig.LoadNetworkProfiles(cfg.NetworksFile, builtin.Lookup)
	if err != nil {
		return nil, err
	}
	return network.NewRegistry(overlay...), nil
}

// NetworkSet provides the network profile registry
var NetworkSet = wire.NewSet(
	ProvideNetworkRegistry,
	wire.Bind(new(usecase.NetworkRegistry), new(*network.Registry)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewRecordStoreAdapter,
	wire.Bind(new(usecase.RecordRepository), new(*fs.RecordStoreAdapter)),

	fs.NewEnvFileAdapter,
	wire.Bind(new(usecase.EnvFileWriter), new(*fs.EnvFileAdapter)),
)

// PlanSet provides the deployment plan source
var PlanSet = wire.NewSet(
	plan.NewLoaderAdapter,
	wire.Bind(new(usecase.PlanSource), new(*plan.LoaderAdapter)),
)

// ChainSet provides go-ethereum based implementations
var ChainSet = wire.NewSet(
	chain.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*chain.Connector)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractivePrompter), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	NetworkSet,
	FSSet,
	PlanSet,
	ChainSet,
	InteractiveSet,
)
