package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

// Monday 2024-03-04 10:00 UTC
var day0 = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func say(sender string, offset time.Duration, content string) chat.Message {
	return chat.Message{
		Sender:    sender,
		Timestamp: day0.Add(offset),
		Channel:   "general",
		Source:    chat.SourceDiscord,
		Content:   content,
	}
}

// sampleChat has four conversations: three messages, then three singles.
func sampleChat() *chat.Chat {
	c := chat.New(time.UTC)
	c.Add(
		say("alice", 0, "hello there"),
		say("bob", 5*time.Minute, "hi"),
		say("alice", 10*time.Minute, "how are you"),
		say("bob", 4*time.Hour, "good thanks"),
		say("alice", 17*time.Hour, "late night"), // 03:00 on Tuesday
		say("bob", 23*time.Hour, "morning"),
	)
	return c
}

func series(t *testing.T, res Result) *Series {
	t.Helper()
	s, ok := res.(*Series)
	require.True(t, ok, "got %T", res)
	return s
}

func scalar(t *testing.T, res Result) *Scalar {
	t.Helper()
	s, ok := res.(*Scalar)
	require.True(t, ok, "got %T", res)
	return s
}

func TestExecute_Breakdown(t *testing.T) {
	msgs := sampleChat().Messages()

	res, err := Execute(Breakdown{Target: TargetMessage, Final: []Group{GroupSender}}, msgs, Options{})
	require.NoError(t, err)
	s := series(t, res)
	assert.Equal(t, []string{"alice", "bob"}, s.Levels(0))
	v, ok := s.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, Value{3}, v)

	res, err = Execute(Breakdown{Target: TargetCharacter, Final: []Group{GroupSender}}, msgs, Options{})
	require.NoError(t, err)
	s = series(t, res)
	v, _ = s.Lookup("alice")
	assert.Equal(t, Value{32}, v)
	v, _ = s.Lookup("bob")
	assert.Equal(t, Value{20}, v)

	res, err = Execute(Breakdown{Target: TargetConversation, Final: []Group{GroupDay}}, msgs, Options{})
	require.NoError(t, err)
	s = series(t, res)
	require.Len(t, s.Rows, 2)
	assert.Equal(t, Value{2}, s.Rows[0].Value)
	assert.Equal(t, Value{2}, s.Rows[1].Value)
}

func TestExecute_BreakdownTwoLevels(t *testing.T) {
	msgs := sampleChat().Messages()
	res, err := Execute(Breakdown{Target: TargetWord, Final: []Group{GroupDay, GroupSender}}, msgs, Options{})
	require.NoError(t, err)
	s := series(t, res)

	require.Len(t, s.Rows, 4)
	assert.Equal(t, []string{"2024-03-04", "2024-03-05"}, s.Levels(0))
	v, ok := s.Lookup("2024-03-04", "alice")
	require.True(t, ok)
	assert.Equal(t, Value{5}, v)
	v, ok = s.Lookup("2024-03-05", "bob")
	require.True(t, ok)
	assert.Equal(t, Value{1}, v)
}

func TestExecute_WakingDay(t *testing.T) {
	msgs := sampleChat().Messages()
	in := Breakdown{Target: TargetMessage, Final: []Group{GroupDay}}

	res, err := Execute(in, msgs, Options{})
	require.NoError(t, err)
	v, _ := series(t, res).Lookup("2024-03-04")
	assert.Equal(t, Value{4}, v)

	res, err = Execute(in, msgs, Options{WakingDay: true})
	require.NoError(t, err)
	v, _ = series(t, res).Lookup("2024-03-04")
	assert.Equal(t, Value{5}, v)
	v, _ = series(t, res).Lookup("2024-03-05")
	assert.Equal(t, Value{1}, v)
}

func TestExecute_RowsSortChronologically(t *testing.T) {
	c := chat.New(time.UTC)
	c.Add(
		say("a", 0, "x"),
		say("a", 24*time.Hour*40, "x"), // April
		say("a", 24*time.Hour*300, "x"),
	)
	res, err := Execute(Breakdown{Target: TargetMessage, Final: []Group{GroupMonth}}, c.Messages(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03", "2024-04", "2024-12"}, series(t, res).Levels(0))
}

func TestExecute_Aggregate(t *testing.T) {
	msgs := sampleChat().Messages()

	res, err := Execute(Aggregate{Op: OpMean, Target: TargetMessage, Initial: GroupConversation}, msgs, Options{})
	require.NoError(t, err)
	assert.Equal(t, Value{1.5}, scalar(t, res).Value)

	res, err = Execute(Aggregate{Op: OpTotal, Target: TargetDuration, Initial: GroupConversation}, msgs, Options{})
	require.NoError(t, err)
	assert.Equal(t, Value{600}, scalar(t, res).Value)

	res, err = Execute(Aggregate{Op: OpMode, Target: TargetWord, Initial: GroupMessage}, msgs, Options{})
	require.NoError(t, err)
	assert.Equal(t, Value{2}, scalar(t, res).Value)
}

func TestExecute_GroupedAggregate(t *testing.T) {
	msgs := sampleChat().Messages()
	in := GroupedAggregate{Op: OpMean, Target: TargetWord, Initial: GroupMessage, Final: []Group{GroupSender}}

	res, err := Execute(in, msgs, Options{})
	require.NoError(t, err)
	s := series(t, res)
	assert.Equal(t, OpMean, s.Op)
	v, ok := s.Lookup("alice")
	require.True(t, ok)
	assert.InDelta(t, 7.0/3, v[0], 1e-9)
	v, ok = s.Lookup("bob")
	require.True(t, ok)
	assert.InDelta(t, 4.0/3, v[0], 1e-9)
}

func TestExecute_Errors(t *testing.T) {
	msgs := sampleChat().Messages()

	_, err := Execute(Breakdown{Target: TargetMessage}, msgs, Options{})
	var invalid *InvalidQueryError
	assert.True(t, errors.As(err, &invalid))

	_, err = Execute(nil, msgs, Options{})
	assert.True(t, errors.As(err, &invalid))

	_, err = Execute(Breakdown{Target: TargetMessage, Final: []Group{GroupSender}}, nil, Options{})
	assert.ErrorIs(t, err, ErrNoMessages)

	_, err = Execute(Aggregate{Op: OpMean, Target: "planets", Initial: GroupDay}, msgs, Options{})
	var token *InvalidTokenError
	require.True(t, errors.As(err, &token))
	assert.Equal(t, "target", token.Kind)
}
