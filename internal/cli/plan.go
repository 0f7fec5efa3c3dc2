package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Validate and print the deployment plan",
		Long: `Load the deployment plan, check that every dependency and constructor
reference points at an earlier contract, and print it in deployment order.
No network is contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowPlan.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewPlanRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderPlan(result)
		},
	}
}
