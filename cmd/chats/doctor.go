package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-analytics/internal/autocorrect"
	"github.com/Zuo-Peng/chat-analytics/internal/chat"
	"github.com/Zuo-Peng/chat-analytics/internal/config"
	"github.com/Zuo-Peng/chat-analytics/internal/index"
	"github.com/Zuo-Peng/chat-analytics/internal/query"
	"github.com/Zuo-Peng/chat-analytics/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, roots, DB and dictionary, and show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			if cfg.Path != "" {
				fmt.Printf("  File: %s\n", cfg.Path)
			} else {
				fmt.Println("  File: (none, using defaults)")
			}
			fmt.Printf("  Timezone: %s\n", cfg.Timezone)
			fmt.Printf("  Waking day: %v\n", cfg.WakingDay)

			// check roots
			fmt.Println("\n=== Roots ===")
			checkDir("Messenger", cfg.MessengerRoot)
			checkDir("Discord", cfg.DiscordRoot)

			// scan file counts
			fmt.Println("\n=== Export Scan ===")
			files, err := scan.ScanRoots(cfg.MessengerRoot, cfg.DiscordRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				messengerCount, discordCount := 0, 0
				for _, f := range files {
					if f.Source == chat.SourceMessenger {
						messengerCount++
					} else {
						discordCount++
					}
				}
				fmt.Printf("  Messenger message files: %d\n", messengerCount)
				fmt.Printf("  Discord channels:        %d\n", discordCount)
			}

			// check dictionary
			fmt.Println("\n=== Dictionary ===")
			checkDictionary(cfg.Dictionary)

			// check DB
			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'chats index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			exportCount, err := db.ExportCount()
			if err != nil {
				return fmt.Errorf("count exports: %w", err)
			}
			messageCount, err := db.MessageCount()
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}
			fmt.Printf("  Exports:  %s\n", humanize.Comma(int64(exportCount)))
			fmt.Printf("  Messages: %s\n", humanize.Comma(int64(messageCount)))

			channels, err := db.Channels()
			if err != nil {
				return fmt.Errorf("list channels: %w", err)
			}
			fmt.Printf("\n=== Channels (%d) ===\n", len(channels))
			for _, c := range channels {
				fmt.Printf("  %s  %8s msgs  %s .. %s  %s\n",
					colorizeSource(c.Source),
					humanize.Comma(int64(c.Messages)),
					c.First.Format("2006-01-02"), c.Last.Format("2006-01-02"),
					c.Channel)
			}

			// check DB file size
			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %s ===\n", humanize.Bytes(uint64(info.Size())))
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}

// checkDictionary reports the corrector vocabulary and flags query words
// that the built-in dictionary is missing.
func checkDictionary(extraPath string) {
	words := autocorrect.DefaultWords()
	fmt.Printf("  Built-in words: %d\n", len(words))

	known := make(map[string]bool, len(words))
	for _, w := range words {
		known[w] = true
	}
	var missing []string
	for _, w := range query.Vocabulary() {
		if !known[w] {
			missing = append(missing, w)
		}
	}
	if len(missing) > 0 {
		fmt.Printf("  Status: MISSING query words %v\n", missing)
	} else {
		fmt.Println("  Status: OK (covers the query language)")
	}

	if extraPath == "" {
		return
	}
	extra, err := autocorrect.LoadWords(extraPath)
	if err != nil {
		fmt.Printf("  Extra: %s (%v)\n", extraPath, err)
		return
	}
	fmt.Printf("  Extra: %s (%d words)\n", extraPath, len(extra))
}
