package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-analytics/internal/config"
	"github.com/Zuo-Peng/chat-analytics/internal/index"
)

func indexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan and index Messenger and Discord exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning roots...\n")
			fmt.Fprintf(os.Stderr, "  Messenger: %s\n", cfg.MessengerRoot)
			fmt.Fprintf(os.Stderr, "  Discord:   %s\n", cfg.DiscordRoot)

			stats, err := index.IndexAll(db, cfg.MessengerRoot, cfg.DiscordRoot, a.logger)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}
