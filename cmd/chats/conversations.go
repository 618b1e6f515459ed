package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
	"github.com/Zuo-Peng/chat-analytics/internal/render"
)

const (
	sColorReset = "\033[0m"
	sColorBlue  = "\033[1;34m"
	sColorGreen = "\033[1;32m"
	sColorDim   = "\033[2m"
)

func colorizeSource(source chat.Source) string {
	switch source {
	case chat.SourceMessenger:
		return sColorBlue + "messenger" + sColorReset
	case chat.SourceDiscord:
		return sColorGreen + "discord  " + sColorReset
	default:
		return string(source)
	}
}

func conversationsCmd(a *app) *cobra.Command {
	var flags filterFlags
	var limit int
	var minMessages int

	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "List conversations, newest first",
		Long: `List the conversation table: a conversation ends after an hour of
silence or when the channel changes. The first column is the id that
'chats preview' takes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(a, &flags)
			if err != nil {
				return err
			}
			defer s.Close()

			convs := s.chat.Conversations()
			msgs := s.chat.Messages()
			shown := 0
			for i := len(convs) - 1; i >= 0; i-- {
				c := convs[i]
				if c.Len() < minMessages {
					continue
				}
				if limit > 0 && shown >= limit {
					break
				}
				shown++

				first := msgs[c.StartIndex]
				snippet := strings.ReplaceAll(first.Content, "\n", " ")
				snippet = runewidth.Truncate(snippet, 50, "…")
				fmt.Printf("%6d  %s%s%s  %8s  %5s msgs  %s  %s  %s%s: %s%s\n",
					c.ID,
					sColorDim, c.StartTimestamp.Format("2006-01-02 15:04"), sColorReset,
					render.FormatDuration(c.Duration()),
					humanize.Comma(int64(c.Len())),
					colorizeSource(first.Source),
					runewidth.FillRight(runewidth.Truncate(c.Channel, 24, "…"), 24),
					sColorDim, first.Sender, snippet, sColorReset,
				)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 50, "Max conversations (0 = no limit)")
	cmd.Flags().IntVar(&minMessages, "min", 1, "Only conversations with at least this many messages")

	return cmd
}
