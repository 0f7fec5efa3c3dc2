//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/adapters"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/logging"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,
		ProvideClock,

		// Adapters
		adapters.AllAdapters,

		// Pipeline components
		usecase.NewConfigValidator,
		usecase.NewBalanceGuard,
		usecase.NewDeploymentSequencer,
		usecase.NewArtifactPersister,

		// Use cases
		usecase.NewDeployContracts,
		usecase.NewShowPlan,
		usecase.NewListNetworks,
		usecase.NewShowRecord,
		usecase.NewGenerateAccount,

		// App
		NewApp,
	)
	return nil, nil
}
