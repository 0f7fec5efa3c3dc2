package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/app"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [network]",
		Short: "Deploy the contract suite to a network",
		Long: `Deploy every contract of the plan to the selected network, in order.

Each contract is confirmed on chain before the next one is sent, so later
constructors receive the real addresses of earlier contracts. The run stops
at the first failure; the deployment record is only written when every
contract was deployed.

Networks that need credentials ask for confirmation, once the environment and
the plan are valid, unless --yes or --non-interactive is given. Local networks
sign with the development account; --use-env-key signs with
DEPLOYER_PRIVATE_KEY instead. Without a network, an interactive picker is shown.

Examples:
  catapult deploy localhost
  catapult deploy --network sepolia --yes
  catapult deploy mynet --rpc-url http://10.0.0.5:8545`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			network, err := targetNetwork(ctx, app, args)
			if err != nil {
				return err
			}

			result, runErr := app.DeployContracts.Run(ctx, usecase.DeployContractsParams{
				Network: network,
				Confirm: func(ctx context.Context, profile *domain.NetworkProfile) error {
					return confirmDeploy(ctx, app, profile)
				},
			})

			renderer := render.NewRecordRenderer(cmd.OutOrStdout(), app.Config.JSON)
			if err := renderer.RenderDeployResult(result); err != nil {
				return err
			}

			if runErr != nil {
				return withNetworkSuggestions(app, network, runErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().String("rpc-url", "", "RPC endpoint overriding the network profile")
	cmd.Flags().Bool("use-env-key", false, "Sign with DEPLOYER_PRIVATE_KEY on local networks too")
	cmd.Flags().Duration("timeout", 0, "Abort the run after this long (0 disables)")

	return cmd
}

// targetNetwork picks the network from args, --network, or the interactive picker
func targetNetwork(ctx context.Context, app *app.App, args []string) (string, error) {
	if len(args) == 1 {
		return strings.ToLower(args[0]), nil
	}
	if app.Config.Network != "" {
		return app.Config.Network, nil
	}
	if app.Config.NonInteractive {
		return "", &domain.ConfigError{Key: "network", Reason: domain.ConfigReasonMissing}
	}
	return app.Prompter.SelectNetwork(ctx, app.Networks.List())
}

// confirmDeploy asks before spending funds on a network that needs credentials
func confirmDeploy(ctx context.Context, app *app.App, profile *domain.NetworkProfile) error {
	if !profile.RequiresCredentials || app.Config.AssumeYes || app.Config.NonInteractive {
		return nil
	}

	ok, err := app.Prompter.Confirm(ctx, fmt.Sprintf("Deploy to %s (chain %d)", profile.Name, profile.ChainID))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("deployment to %s aborted: %w", profile.Name, context.Canceled)
	}
	return nil
}

// withNetworkSuggestions adds "did you mean" hints when the network is unknown
func withNetworkSuggestions(app *app.App, network string, err error) error {
	if !errors.Is(err, domain.ErrUnknownNetwork) || app.Networks.Known(network) {
		return err
	}
	suggestions := app.Networks.Suggest(network)
	if len(suggestions) == 0 {
		return fmt.Errorf("%w (pass --rpc-url or add it to networks.toml)", err)
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
}
