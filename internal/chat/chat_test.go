package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_AddSortsDedupsAndSegments(t *testing.T) {
	c := New(time.UTC)
	c.Add(msgAt(2*time.Hour, "a"), msgAt(0, "a"))
	c.Add(msgAt(0, "a"), msgAt(time.Minute, "a")) // first one is a duplicate

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.True(t, msgs[0].Timestamp.Equal(base))
	assert.True(t, msgs[1].Timestamp.Equal(base.Add(time.Minute)))
	assert.True(t, msgs[2].Timestamp.Equal(base.Add(2*time.Hour)))

	convs := c.Conversations()
	require.Len(t, convs, 2)
	requirePartition(t, msgs, convs)
}

func TestChat_DedupKeepsDistinctRowsWithSameTimestamp(t *testing.T) {
	a := msgAt(0, "a")
	b := msgAt(0, "a")
	b.Content = "different"

	c := New(time.UTC)
	c.Add(a, b, a)
	assert.Equal(t, 2, c.Len())
}

func TestChat_HashInvalidatedOnMutation(t *testing.T) {
	c := New(time.UTC)
	c.Add(msgAt(0, "a"))
	h1 := c.Hash()
	assert.Equal(t, h1, c.Hash())

	c.Add(msgAt(time.Minute, "a"))
	h2 := c.Hash()
	assert.NotEqual(t, h1, h2)

	c.SetTimezone(time.FixedZone("JST", 9*3600))
	assert.NotEqual(t, h2, c.Hash())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Conversations())
}

func TestChat_SetTimezone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	c := New(time.UTC)
	c.Add(msgAt(0, "a"))
	c.SetTimezone(tokyo)

	assert.Equal(t, tokyo, c.Location())
	assert.Equal(t, 21, c.Messages()[0].Timestamp.Hour())
	assert.Equal(t, tokyo, c.Conversations()[0].StartTimestamp.Location())
}

func TestChat_Conversation(t *testing.T) {
	c := New(time.UTC)
	c.Add(msgAt(0, "a"), msgAt(time.Minute, "a"), msgAt(time.Minute, "b"))

	conv, msgs, ok := c.Conversation(1)
	require.True(t, ok)
	assert.Equal(t, "b", conv.Channel)
	assert.Len(t, msgs, 1)

	_, _, ok = c.Conversation(5)
	assert.False(t, ok)
}
