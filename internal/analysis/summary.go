// Package analysis computes the headline statistics shown by "chats stats".
package analysis

import (
	"time"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
	"github.com/Zuo-Peng/chat-analytics/internal/query"
)

type Summary struct {
	Messages      int
	Conversations int
	Senders       int
	First, Last   time.Time

	MessagesPerConversation float64
	// MeanConversationDuration ignores single-message conversations.
	MeanConversationDuration time.Duration

	MessagesPerDay       float64
	MessagesPerWakingDay float64
	MessagesPerWeek      float64

	CharactersPerMessage      float64
	WordsPerMessage           float64
	CharactersPerConversation float64
	WordsPerConversation      float64
}

// Summarize runs the standard set of mean aggregates over c.
func Summarize(c *chat.Chat) (Summary, error) {
	msgs := c.Messages()
	if len(msgs) == 0 {
		return Summary{}, query.ErrNoMessages
	}

	s := Summary{
		Messages:      len(msgs),
		Conversations: len(c.Conversations()),
		First:         msgs[0].Timestamp,
		Last:          msgs[len(msgs)-1].Timestamp,
	}
	senders := make(map[string]struct{})
	for _, m := range msgs {
		senders[m.Sender] = struct{}{}
	}
	s.Senders = len(senders)
	s.MeanConversationDuration = meanDuration(c.Conversations())

	means := []struct {
		dst     *float64
		target  query.Target
		initial query.Group
		opts    query.Options
	}{
		{&s.MessagesPerConversation, query.TargetMessage, query.GroupConversation, query.Options{}},
		{&s.MessagesPerDay, query.TargetMessage, query.GroupDay, query.Options{}},
		{&s.MessagesPerWakingDay, query.TargetMessage, query.GroupDay, query.Options{WakingDay: true}},
		{&s.MessagesPerWeek, query.TargetMessage, query.GroupWeek, query.Options{}},
		{&s.CharactersPerMessage, query.TargetCharacter, query.GroupMessage, query.Options{}},
		{&s.WordsPerMessage, query.TargetWord, query.GroupMessage, query.Options{}},
		{&s.CharactersPerConversation, query.TargetCharacter, query.GroupConversation, query.Options{}},
		{&s.WordsPerConversation, query.TargetWord, query.GroupConversation, query.Options{}},
	}
	for _, m := range means {
		res, err := query.Execute(query.Aggregate{Op: query.OpMean, Target: m.target, Initial: m.initial}, msgs, m.opts)
		if err != nil {
			return Summary{}, err
		}
		*m.dst = res.(*query.Scalar).Value[0]
	}
	return s, nil
}

func meanDuration(convs []chat.Conversation) time.Duration {
	var total time.Duration
	n := 0
	for _, c := range convs {
		if d := c.Duration(); d > 0 {
			total += d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}
