package chat

import (
	"encoding/binary"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Chat holds a sorted, de-duplicated message sequence together with its
// conversation table. It is not safe for concurrent use.
type Chat struct {
	messages      []Message
	conversations []Conversation
	loc           *time.Location

	hash      uint64
	hashValid bool
}

func New(loc *time.Location) *Chat {
	if loc == nil {
		loc = time.UTC
	}
	return &Chat{loc: loc}
}

// Add merges msgs into the chat, then re-sorts, de-duplicates and
// re-segments the whole sequence.
func (c *Chat) Add(msgs ...Message) {
	for _, m := range msgs {
		m.Timestamp = m.Timestamp.In(c.loc)
		c.messages = append(c.messages, m)
	}
	c.Regroup()
}

// Regroup sorts all messages by timestamp and rebuilds the conversations.
func (c *Chat) Regroup() {
	slices.SortStableFunc(c.messages, func(a, b Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	c.messages = dedup(c.messages)
	c.conversations = Segment(c.messages)
	c.hashValid = false
}

func (c *Chat) Clear() {
	c.messages = c.messages[:0]
	c.conversations = nil
	c.hashValid = false
}

// SetTimezone re-zones every timestamp. Ordering and conversations are
// unaffected, but day-based buckets may change.
func (c *Chat) SetTimezone(loc *time.Location) {
	c.loc = loc
	for i := range c.messages {
		c.messages[i].Timestamp = c.messages[i].Timestamp.In(loc)
	}
	for i := range c.conversations {
		c.conversations[i].StartTimestamp = c.conversations[i].StartTimestamp.In(loc)
		c.conversations[i].EndTimestamp = c.conversations[i].EndTimestamp.In(loc)
	}
	c.hashValid = false
}

func (c *Chat) Location() *time.Location {
	return c.loc
}

// Messages returns the sorted message slice. Callers must not modify it.
func (c *Chat) Messages() []Message {
	return c.messages
}

func (c *Chat) Conversations() []Conversation {
	return c.conversations
}

func (c *Chat) Len() int {
	return len(c.messages)
}

// Conversation returns the conversation with the given id and its messages.
func (c *Chat) Conversation(id int) (Conversation, []Message, bool) {
	if id < 0 || id >= len(c.conversations) {
		return Conversation{}, nil, false
	}
	conv := c.conversations[id]
	return conv, c.messages[conv.StartIndex : conv.EndIndex+1], true
}

// Hash fingerprints the message sequence and timezone. The value is cached
// until the next mutation.
func (c *Chat) Hash() uint64 {
	if c.hashValid {
		return c.hash
	}

	d := xxhash.New()
	var buf [8]byte
	d.WriteString(c.loc.String())
	for _, m := range c.messages {
		binary.LittleEndian.PutUint64(buf[:], uint64(m.Timestamp.UnixNano()))
		d.Write(buf[:])
		for _, s := range []string{m.Sender, m.Channel, string(m.Source), m.Content} {
			d.WriteString(s)
			d.Write([]byte{0})
		}
	}

	c.hash = d.Sum64()
	c.hashValid = true
	return c.hash
}

// dedup removes identical rows from a timestamp-sorted slice. Duplicates
// always share a timestamp, so only runs of equal timestamps are compared.
func dedup(msgs []Message) []Message {
	out := msgs[:0]
	runStart := 0
	for _, m := range msgs {
		if len(out) > 0 && !out[len(out)-1].Timestamp.Equal(m.Timestamp) {
			runStart = len(out)
		}
		dup := false
		for _, seen := range out[runStart:] {
			if sameRow(seen, m) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return out
}
