package chat

import "time"

type Source string

const (
	SourceMessenger Source = "Facebook Messenger"
	SourceDiscord   Source = "Discord"
)

type Message struct {
	Sender       string
	Timestamp    time.Time
	Channel      string
	Conversation int // assigned by Segment, never read from an export
	Source       Source
	Content      string
}

// Conversation is one contiguous run of messages sharing a conversation id.
// StartIndex and EndIndex are inclusive positions in the sorted message slice.
type Conversation struct {
	ID             int
	StartIndex     int
	EndIndex       int
	StartTimestamp time.Time
	EndTimestamp   time.Time
	Channel        string
}

func (c Conversation) Len() int {
	return c.EndIndex - c.StartIndex + 1
}

func (c Conversation) Duration() time.Duration {
	return c.EndTimestamp.Sub(c.StartTimestamp)
}

// sameRow reports whether two messages are duplicates of each other.
// The derived conversation id is ignored.
func sameRow(a, b Message) bool {
	return a.Timestamp.Equal(b.Timestamp) &&
		a.Sender == b.Sender &&
		a.Channel == b.Channel &&
		a.Source == b.Source &&
		a.Content == b.Content
}
