package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/approval"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/bridgestate"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/config"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/telegram"
)

func NewApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve",
		Short: "PermissionRequest hook: relay a tool call to Telegram and wait for the decision",
		Run:   runApprove,
	}
}

// runApprove implements the hook contract: exit 2 when config or input is
// unusable (a malformed approval must never silently allow), exit 0 with
// at most one decision object otherwise.
func runApprove(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ccbridge approve: %v\n", err)
		os.Exit(2)
	}

	var input approval.HookInput
	if err := json.NewDecoder(os.Stdin).Decode(&input); err != nil {
		fmt.Fprintf(os.Stderr, "ccbridge approve: invalid hook input: %v\n", err)
		os.Exit(2)
	}

	store := bridgestate.New(cfg.Bridge.DataDir)

	// Only reach for the network when a relay is actually listening.
	var msgr approval.Messenger
	if store.Running() {
		client, err := telegram.New(&cfg.Telegram)
		if err != nil {
			slog.Warn("telegram unavailable", "error", err)
		} else {
			msgr = client
		}
	}

	decision, ok := approval.NewService(cfg, store, msgr).Decide(input)
	if !ok {
		return
	}
	if err := json.NewEncoder(os.Stdout).Encode(approval.NewHookOutput(decision)); err != nil {
		fmt.Fprintf(os.Stderr, "ccbridge approve: encode decision: %v\n", err)
	}
}
