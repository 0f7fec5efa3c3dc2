package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewAccountCmd creates the account command group
func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the deployer account",
	}

	cmd.AddCommand(newAccountNewCmd())

	return cmd
}

func newAccountNewCmd() *cobra.Command {
	var writeEnv, force bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new deployer key",
		Long: `Generate a fresh secp256k1 key and print its address and private key.

With --write-env the key is stored as DEPLOYER_PRIVATE_KEY in the project
.env file. An existing real key is never replaced unless --force is given;
documentation placeholders are replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.GenerateAccount.Run(cmd.Context(), usecase.GenerateAccountParams{
				WriteEnv: writeEnv,
				Force:    force,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if app.Config.JSON {
				return render.WriteJSON(out, map[string]string{
					"address":    result.Address.Hex(),
					"privateKey": result.PrivateKey,
					"envFile":    result.EnvFile,
				})
			}

			fmt.Fprintln(out, render.FormatSuccess("New deployer account"))
			fmt.Fprintf(out, "  Address:     %s\n", result.Address.Hex())
			if result.EnvFile != "" {
				fmt.Fprintf(out, "  Private key: written to %s\n", result.EnvFile)
			} else {
				fmt.Fprintf(out, "  Private key: %s\n", result.PrivateKey)
				fmt.Fprintln(out, render.FormatWarning("Keep this key secret. Anyone holding it controls the account."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&writeEnv, "write-env", false, "Store the key as DEPLOYER_PRIVATE_KEY in .env")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing DEPLOYER_PRIVATE_KEY in .env")

	return cmd
}
