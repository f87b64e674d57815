package commands

import (
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/config"
	"github.com/spf13/cobra"
)

var logLevelOverride string

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ccbridge",
		Short: "Telegram bridge for Claude Code",
		Long:  `ccbridge relays Claude Code permission prompts and responses to Telegram, and types replies back into the focused terminal.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Each command handles a missing config with its own exit
			// semantics; the logger falls back to defaults here.
			cfg, err := config.Load()
			if err != nil {
				cfg = config.DefaultConfig()
			}
			return configureLogger(cfg, logLevelOverride)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Override log level (debug|info|warn|error)")

	cmd.AddCommand(
		NewInitCmd(),
		NewBridgeCmd(),
		NewApproveCmd(),
		NewRespondCmd(),
		NewStatusCmd(),
		NewVersionCmd(),
	)

	return cmd
}
