package commands

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/bridgestate"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/config"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/publisher"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/telegram"
)

func NewRespondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respond",
		Short: "Stop hook: publish the latest assistant response to Telegram",
		Run:   runRespond,
	}
}

// runRespond always exits 0; publishing is best effort and a broken
// environment must not surface as a hook failure.
func runRespond(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		return
	}

	var input struct {
		TranscriptPath string `json:"transcript_path"`
	}
	if err := json.NewDecoder(os.Stdin).Decode(&input); err != nil {
		return
	}
	if input.TranscriptPath == "" {
		return
	}

	store := bridgestate.New(cfg.Bridge.DataDir)
	if !store.Running() {
		return
	}

	client, err := telegram.New(&cfg.Telegram)
	if err != nil {
		slog.Debug("telegram unavailable", "error", err)
		return
	}

	if err := publisher.New(store, client).Publish(input.TranscriptPath); err != nil {
		slog.Debug("publish failed", "error", err)
	}
}
