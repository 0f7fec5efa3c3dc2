package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [network]",
		Short: "Show the recorded deployment for a network",
		Long: `Show the contract addresses recorded by the last successful deployment
to a network.

Examples:
  catapult show localhost
  catapult show --network sepolia --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			network := app.Config.Network
			if len(args) == 1 {
				network = strings.ToLower(args[0])
			}

			result, err := app.ShowRecord.Run(cmd.Context(), usecase.ShowRecordParams{Network: network})
			if err != nil {
				return err
			}

			return render.NewRecordRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderRecord(result)
		},
	}

	return cmd
}
