package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-analytics/internal/analysis"
	"github.com/Zuo-Peng/chat-analytics/internal/render"
)

func statsCmd(a *app) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show summary statistics for the indexed chats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(a, &flags)
			if err != nil {
				return err
			}
			defer s.Close()

			sum, err := analysis.Summarize(s.chat)
			if err != nil {
				return explainNoMessages(err)
			}

			num := func(x float64) string { return humanize.CommafWithDigits(x, 2) }
			row := func(label, value string) { fmt.Printf("  %-28s %s\n", label+":", value) }

			fmt.Println("=== Totals ===")
			row("Messages", humanize.Comma(int64(sum.Messages)))
			row("Conversations", humanize.Comma(int64(sum.Conversations)))
			row("Senders", strconv.Itoa(sum.Senders))
			row("Span", fmt.Sprintf("%s to %s (%s)",
				sum.First.Format("2006-01-02"), sum.Last.Format("2006-01-02"),
				strings.TrimSpace(humanize.RelTime(sum.First, sum.Last, "", ""))))

			fmt.Println("\n=== Conversations ===")
			row("Messages per conversation", num(sum.MessagesPerConversation))
			row("Mean duration", render.FormatDuration(sum.MeanConversationDuration))
			row("Words per conversation", num(sum.WordsPerConversation))
			row("Characters per conversation", num(sum.CharactersPerConversation))

			fmt.Println("\n=== Activity ===")
			row("Messages per day", num(sum.MessagesPerDay))
			row("Messages per waking day", num(sum.MessagesPerWakingDay))
			row("Messages per week", num(sum.MessagesPerWeek))

			fmt.Println("\n=== Messages ===")
			row("Words per message", num(sum.WordsPerMessage))
			row("Characters per message", num(sum.CharactersPerMessage))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
