package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// app carries what every subcommand shares. logger is ready once the root
// command's pre-run has parsed --verbose.
type app struct {
	verbose bool
	logger  *zap.Logger
}

func main() {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:     "chats",
		Short:   "Chat analytics - ask questions about Messenger and Discord chat exports",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(indexCmd(a))
	rootCmd.AddCommand(queryCmd(a))
	rootCmd.AddCommand(conversationsCmd(a))
	rootCmd.AddCommand(previewCmd(a))
	rootCmd.AddCommand(statsCmd(a))
	rootCmd.AddCommand(doctorCmd())

	err := rootCmd.Execute()
	_ = a.logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
