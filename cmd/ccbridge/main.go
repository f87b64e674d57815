package main

import (
	"os"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/cmd/ccbridge/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
