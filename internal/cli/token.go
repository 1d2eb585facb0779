package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored API token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <token>",
		Short: "Store the API token in the token file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(args[0])
			if err := cfg.SaveToken(token); err != nil {
				return err
			}
			client.SetToken(token)

			out := NewOutput(cfg.Output)
			out.PrintMessage("Token saved to " + cfg.TokenFile)
			return nil
		},
	})

	cost := bcrypt.DefaultCost
	hashCmd := &cobra.Command{
		Use:   "hash <token>",
		Short: "Print a bcrypt hash of a token for server.api_token_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(args[0])), cost)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(string(hash))
			return nil
		},
	}
	hashCmd.Flags().IntVar(&cost, "cost", cost, "bcrypt cost")
	cmd.AddCommand(hashCmd)

	return cmd
}
