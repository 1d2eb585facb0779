package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "seatctl",
		Short: "CLI tool for the seating planner API",
		Long: `seatctl is a CLI tool for the seating planner JSON API.

It covers seating edits, table layout, attendee import and RSVP updates,
the canvas view state, and real-time SSE event streaming.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SEATCTL_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.EventID, "event", "e", cfg.EventID, "Event id (env: SEATCTL_EVENT)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "API token (env: SEATCTL_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: SEATCTL_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newSeatingCmd())
	rootCmd.AddCommand(newTablesCmd())
	rootCmd.AddCommand(newLayoutCmd())
	rootCmd.AddCommand(newMetadataCmd())
	rootCmd.AddCommand(newUnassignedCmd())
	rootCmd.AddCommand(newAttendeesCmd())
	rootCmd.AddCommand(newViewStateCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
