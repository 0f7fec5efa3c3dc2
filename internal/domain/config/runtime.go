package config

import (
	"time"
)

// Recognized environment keys
const (
	EnvPrivateKey = "DEPLOYER_PRIVATE_KEY"
	EnvAPIKey     = "RPC_API_KEY"
)

// RecognizedEnvKeys lists the environment keys collected into RuntimeConfig.Env,
// in the order the config validator checks them.
func RecognizedEnvKeys() []string {
	return []string{EnvPrivateKey, EnvAPIKey}
}

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	RecordsDir   string
	ArtifactsDir string
	PlanFile     string // empty means the built-in plan
	NetworksFile string

	// Target selection
	Network     string // execution profile, may be empty until picked
	RPCOverride string
	// UseEnvKeyLocally signs with DEPLOYER_PRIVATE_KEY on networks that need no credentials
	UseEnvKeyLocally bool

	// Env holds the recognized environment keys that were set
	Env map[string]string

	// Execution settings
	Debug          bool
	NonInteractive bool
	AssumeYes      bool
	JSON           bool
	Timeout        time.Duration // zero disables the timeout
}
