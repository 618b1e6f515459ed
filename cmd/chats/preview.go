package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat-analytics/internal/render"
)

func previewCmd(a *app) *cobra.Command {
	var flags filterFlags
	var limit, width int
	var highlight string

	cmd := &cobra.Command{
		Use:   "preview <conversation>",
		Short: "Print one conversation as a transcript",
		Long: `Print one conversation as a transcript. Conversation ids come from
'chats conversations' and depend on the same --source/--channel/--since
filters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("conversation id %q: %w", args[0], err)
			}

			s, err := openSession(a, &flags)
			if err != nil {
				return err
			}
			defer s.Close()

			isTerm := term.IsTerminal(int(os.Stdout.Fd()))
			if width == 0 && isTerm {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					width = w
				}
			}

			out, err := render.RenderConversation(s.chat, id, render.Options{
				Width:     width,
				Highlight: highlight,
				Limit:     limit,
				Plain:     !isTerm,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Messages to show (0 = all)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = terminal width)")
	cmd.Flags().StringVar(&highlight, "highlight", "", "Words to highlight")

	return cmd
}
