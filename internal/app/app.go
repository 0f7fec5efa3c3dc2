package app

import (
	"time"

	"github.com/trebuchet-org/catapult/internal/adapters/chain"
	"github.com/trebuchet-org/catapult/internal/adapters/network"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Networks *network.Registry
	Prompter usecase.InteractivePrompter

	// Use cases
	DeployContracts *usecase.DeployContracts
	ShowPlan        *usecase.ShowPlan
	ListNetworks    *usecase.ListNetworks
	ShowRecord      *usecase.ShowRecord
	GenerateAccount *usecase.GenerateAccount

	connector *chain.Connector
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	networks *network.Registry,
	prompter usecase.InteractivePrompter,
	connector *chain.Connector,
	deployContracts *usecase.DeployContracts,
	showPlan *usecase.ShowPlan,
	listNetworks *usecase.ListNetworks,
	showRecord *usecase.ShowRecord,
	generateAccount *usecase.GenerateAccount,
) *App {
	return &App{
		Config:          cfg,
		Networks:        networks,
		Prompter:        prompter,
		DeployContracts: deployContracts,
		ShowPlan:        showPlan,
		ListNetworks:    listNetworks,
		ShowRecord:      showRecord,
		GenerateAccount: generateAccount,
		connector:       connector,
	}
}

// Close releases RPC connections opened during the run
func (a *App) Close() {
	if a.connector != nil {
		a.connector.Close()
	}
}

// ProvideClock provides the wall clock used for record timestamps
func ProvideClock() usecase.Clock {
	return time.Now
}
