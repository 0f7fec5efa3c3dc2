package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	domainconfig "github.com/trebuchet-org/catapult/internal/domain/config"
)

const (
	envPrefix      = "CATAPULT"
	configFileName = "catapult"
	recordsDirName = "deployments"
)

// projectMarkers identify the project root when walking up from the working directory
var projectMarkers = []string{"foundry.toml", "networks.toml", configFileName + ".json"}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*domainconfig.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		projectRoot = FindProjectRoot(cwd)
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	LoadEnvFiles(projectRoot)

	planFile := v.GetString("plan")
	if planFile != "" {
		if planFile, err = filepath.Abs(planFile); err != nil {
			return nil, fmt.Errorf("failed to resolve plan path: %w", err)
		}
	}

	cfg := &domainconfig.RuntimeConfig{
		ProjectRoot:      projectRoot,
		RecordsDir:       filepath.Join(projectRoot, recordsDirName),
		ArtifactsDir:     resolvePath(projectRoot, v.GetString("artifacts_dir")),
		PlanFile:         planFile,
		NetworksFile:     resolvePath(projectRoot, v.GetString("networks_file")),
		Network:          strings.ToLower(strings.TrimSpace(v.GetString("network"))),
		RPCOverride:      v.GetString("rpc_url"),
		UseEnvKeyLocally: v.GetBool("use_env_key"),
		Env:              CollectEnv(os.LookupEnv),
		Debug:            v.GetBool("debug"),
		NonInteractive:   v.GetBool("non_interactive"),
		AssumeYes:        v.GetBool("yes"),
		JSON:             v.GetBool("json"),
		Timeout:          v.GetDuration("timeout"),
	}

	return cfg, nil
}

// FindProjectRoot walks up from dir to the nearest directory holding a project
// marker. Falls back to dir itself.
func FindProjectRoot(dir string) string {
	current := dir
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

// LoadEnvFiles loads .env and .env.local from the project root. Variables that
// are already set in the process environment win.
func LoadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// CollectEnv gathers the recognized environment keys that have a non-blank value
func CollectEnv(lookup func(string) (string, bool)) map[string]string {
	env := make(map[string]string)
	for _, key := range domainconfig.RecognizedEnvKeys() {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			env[key] = strings.TrimSpace(value)
		}
	}
	return env
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName(configFileName)
	v.SetConfigType("json")
	v.AddConfigPath(projectRoot)

	// Set up environment variables
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("artifacts_dir", "out")
	v.SetDefault("networks_file", "networks.toml")
	v.SetDefault("timeout", "0s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("yes", false)
	v.SetDefault("use_env_key", false)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		bindFlags(v, cmd.Flags())
	}

	return v
}

// bindFlags binds every flag under its snake_case key, so --non-interactive
// and CATAPULT_NON_INTERACTIVE set the same value.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})
}
