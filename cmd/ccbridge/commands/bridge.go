package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/bridgestate"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/config"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/inject"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/relay"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/telegram"
)

func NewBridgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bridge",
		Short: "Run the Telegram relay loop",
		RunE:  runBridge,
	}
}

func runBridge(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := telegram.New(&cfg.Telegram)
	if err != nil {
		return err
	}

	store := bridgestate.New(cfg.Bridge.DataDir)
	loop := relay.New(cfg, store, client, inject.NewTypist())

	printBanner()

	return loop.Run(ctx)
}

func printBanner() {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#8E4EC6"))
	ruleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	rule := ruleStyle.Render("==================================================")
	fmt.Println(rule)
	fmt.Println(titleStyle.Render("Telegram Bridge for Claude Code"))
	fmt.Println(rule)
	fmt.Println("Messages from Telegram will be typed into Claude Code.")
	fmt.Println("Make sure the Claude Code terminal is focused!")
	fmt.Println(rule)
	fmt.Println("Press Ctrl+C or send /stop to stop.")
}
