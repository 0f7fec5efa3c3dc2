package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/adapters/progress"
	"github.com/trebuchet-org/catapult/internal/app"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catapult",
		Short: "Deploy an ordered contract suite to EVM networks",
		Long: `Catapult deploys a suite of smart contracts to a chosen network in
dependency order, wiring the addresses of earlier contracts into the
constructors of later ones, and records the resulting addresses per network.

Credentials are read from the environment or the project .env file:
  DEPLOYER_PRIVATE_KEY  private key of the deploying account
  RPC_API_KEY           API key substituted into hosted RPC URLs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := projectRootFor(cmd)
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v, newProgressSink(cmd, v))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cobra.OnFinalize(appInstance.Close)

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cobra.OnFinalize(cancel)
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("json", false, "Output in JSON format")
	flags.StringP("network", "n", "", "Network to use (e.g., localhost, sepolia)")
	flags.String("project-root", "", "Project root (defaults to the nearest directory with foundry.toml or networks.toml)")
	flags.String("plan", "", "Deployment plan file (defaults to the built-in plan)")
	flags.String("artifacts-dir", "", "Directory with compiled contract artifacts (default \"out\")")
	flags.String("networks-file", "", "Network profile overlay (default \"networks.toml\")")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	planCmd := NewPlanCmd()
	planCmd.GroupID = "main"
	rootCmd.AddCommand(planCmd)

	showCmd := NewShowCmd()
	showCmd.GroupID = "main"
	rootCmd.AddCommand(showCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	accountCmd := NewAccountCmd()
	accountCmd.GroupID = "management"
	rootCmd.AddCommand(accountCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return false
}

// projectRootFor honours --project-root, else walks up from the working directory
func projectRootFor(cmd *cobra.Command) (string, error) {
	if f := cmd.Flag("project-root"); f != nil && f.Changed {
		return f.Value.String(), nil
	}
	if root := os.Getenv("CATAPULT_PROJECT_ROOT"); root != "" {
		return root, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.FindProjectRoot(cwd), nil
}

// newProgressSink renders progress on stderr unless output must stay machine-readable
func newProgressSink(cmd *cobra.Command, v *viper.Viper) usecase.ProgressSink {
	if v.GetBool("json") {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSinkWithWriter(cmd.ErrOrStderr())
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// ExitCode maps an error returned by a command to the process exit status
func ExitCode(err error) int {
	return usecase.ClassifyError(err).ExitCode()
}
