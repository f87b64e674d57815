package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/config"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize ccbridge configuration",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.ConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists: %s\n", configPath)
		return nil
	}

	cfg := config.DefaultConfig()
	cfg.Telegram.Token = "YOUR_BOT_TOKEN"

	dirs := []string{
		config.ConfigDir(),
		cfg.Bridge.DataDir,
		filepath.Join(cfg.Bridge.DataDir, "callbacks"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("ccbridge initialized!\n")
	fmt.Printf("Config: %s\n", configPath)
	fmt.Printf("Data dir: %s\n", cfg.Bridge.DataDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("1. Edit %s and set telegram.token and telegram.chat_id\n", configPath)
	fmt.Printf("2. Register the hooks in ~/.claude/settings.json:\n")
	fmt.Printf("   PermissionRequest -> ccbridge approve\n")
	fmt.Printf("   Stop              -> ccbridge respond\n")
	fmt.Printf("3. Run 'ccbridge bridge' in a separate terminal\n")

	return nil
}
