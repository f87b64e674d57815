package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/bridgestate"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/config"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ccbridge configuration and bridge state",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ccbridge Status ===")
	fmt.Println()

	fmt.Printf("Config: %s\n", config.ConfigPath())
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("  Status: Not found (run 'ccbridge init')")
		return nil
	}
	fmt.Println("  Status: OK")

	tokenStatus := "Not configured"
	if cfg.Telegram.Token != "" && cfg.Telegram.Token != "YOUR_BOT_TOKEN" {
		tokenStatus = "Configured"
	}
	fmt.Printf("\nTelegram:\n")
	fmt.Printf("  Token: %s\n", tokenStatus)
	fmt.Printf("  Chat ID: %d\n", cfg.Telegram.ChatID)

	store := bridgestate.New(cfg.Bridge.DataDir)
	fmt.Printf("\nData dir: %s\n", cfg.Bridge.DataDir)
	if _, err := os.Stat(cfg.Bridge.DataDir); err == nil {
		fmt.Println("  Status: OK")
	} else {
		fmt.Println("  Status: Not found")
	}

	running := "stopped"
	if store.Running() {
		running = "running"
	}
	planMode := "off"
	if store.PlanMode() {
		planMode = "on"
	}
	fmt.Printf("\nBridge: %s\n", running)
	fmt.Printf("Plan mode: %s\n", planMode)
	fmt.Printf("Pending approvals: %d\n", store.PendingDecisions())

	fmt.Printf("\nApprovals:\n")
	fmt.Printf("  Auto approve: %s\n", listOrNone(cfg.Approvals.AutoApprove))
	fmt.Printf("  Auto deny: %s\n", listOrNone(cfg.Approvals.AutoDeny))
	fmt.Printf("  Timeout: %ds\n", cfg.Approvals.TimeoutSeconds)

	return nil
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
