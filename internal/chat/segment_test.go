package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

func msgAt(offset time.Duration, channel string) Message {
	return Message{
		Sender:    "alice",
		Timestamp: base.Add(offset),
		Channel:   channel,
		Source:    SourceDiscord,
		Content:   "hi",
	}
}

func requirePartition(t *testing.T, msgs []Message, convs []Conversation) {
	t.Helper()
	require.NotEmpty(t, convs)
	assert.Equal(t, 0, convs[0].StartIndex)
	assert.Equal(t, len(msgs)-1, convs[len(convs)-1].EndIndex)
	for i := 1; i < len(convs); i++ {
		assert.Equal(t, convs[i-1].EndIndex+1, convs[i].StartIndex, "gap or overlap before conversation %d", i)
	}
	for i, c := range convs {
		assert.Equal(t, i, c.ID)
		for j := c.StartIndex; j <= c.EndIndex; j++ {
			assert.Equal(t, i, msgs[j].Conversation)
		}
	}
	for i := 1; i < len(msgs); i++ {
		assert.LessOrEqual(t, msgs[i-1].Conversation, msgs[i].Conversation)
	}
}

func TestSegment_Empty(t *testing.T) {
	assert.Nil(t, Segment(nil))
}

func TestSegment_GapAndChannel(t *testing.T) {
	msgs := []Message{
		msgAt(0, "a"),
		msgAt(30*time.Minute, "a"),
		msgAt(90*time.Minute, "a"),             // exactly one hour later: same conversation
		msgAt(90*time.Minute+time.Second, "b"), // channel change
		msgAt(3*time.Hour, "b"),                // > 1h gap
		msgAt(3*time.Hour+time.Minute, "b"),
	}

	convs := Segment(msgs)
	require.Len(t, convs, 3)
	requirePartition(t, msgs, convs)

	assert.Equal(t, Conversation{
		ID: 0, StartIndex: 0, EndIndex: 2,
		StartTimestamp: base, EndTimestamp: base.Add(90 * time.Minute),
		Channel: "a",
	}, convs[0])
	assert.Equal(t, 1, convs[1].Len())
	assert.Equal(t, "b", convs[1].Channel)
	assert.Equal(t, time.Minute, convs[2].Duration())
}

func TestSegment_Idempotent(t *testing.T) {
	msgs := []Message{
		msgAt(0, "a"),
		msgAt(2*time.Hour, "a"),
		msgAt(2*time.Hour+time.Minute, "c"),
	}
	first := Segment(msgs)
	second := Segment(msgs)
	assert.Equal(t, first, second)
	requirePartition(t, msgs, second)
}

func TestSegment_SingleMessage(t *testing.T) {
	msgs := []Message{msgAt(0, "a")}
	convs := Segment(msgs)
	require.Len(t, convs, 1)
	assert.Equal(t, 0, convs[0].StartIndex)
	assert.Equal(t, 0, convs[0].EndIndex)
	assert.Zero(t, convs[0].Duration())
}
