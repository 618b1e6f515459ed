package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat-analytics/internal/query"
	"github.com/Zuo-Peng/chat-analytics/internal/render"
	"github.com/Zuo-Peng/chat-analytics/internal/tui"
)

func queryCmd(a *app) *cobra.Command {
	var flags filterFlags
	var wakingDay bool

	cmd := &cobra.Command{
		Use:   "query [query]",
		Short: "Answer a question about the indexed chats",
		Long: `Answer a question phrased in the query language, for example:

  chats query messages per month and sender
  chats query average words per message per sender
  chats query standard deviation of duration per conversation

Misspelled words are corrected before parsing. Without a query on a
terminal, an interactive console opens instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(a, &flags)
			if err != nil {
				return err
			}
			defer s.Close()

			q := strings.Join(args, " ")
			if q == "" {
				if !term.IsTerminal(int(os.Stdout.Fd())) {
					return errors.New("query required when not on a terminal")
				}
				engine, err := newEngine(engineLogger(a, true), s.cfg, wakingDay)
				if err != nil {
					return err
				}
				return tui.Run(engine, s.chat, "")
			}

			engine, err := newEngine(engineLogger(a, false), s.cfg, wakingDay)
			if err != nil {
				return err
			}

			ans, err := engine.Ask(s.chat, q)
			if ans != nil && ans.WasCorrected() {
				fmt.Fprintf(os.Stderr, "Interpreted as: %s\n", ans.Corrected)
			}
			if err != nil {
				return explainNoMessages(err)
			}

			out, err := render.RenderResult(ans.Corrected, ans.Result)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&wakingDay, "waking-day", false, "Count messages before 5 AM toward the previous day")

	return cmd
}

// explainNoMessages points users at the fix for an empty index.
func explainNoMessages(err error) error {
	if errors.Is(err, query.ErrNoMessages) {
		return errors.New("no messages indexed (check roots with 'chats doctor', then run 'chats index')")
	}
	return err
}

// engineLogger silences the engine inside the console, where log lines on
// stderr would tear the alt screen.
func engineLogger(a *app, interactive bool) *zap.Logger {
	if interactive {
		return zap.NewNop()
	}
	return a.logger
}
