package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/chat-analytics/internal/autocorrect"
	"github.com/Zuo-Peng/chat-analytics/internal/chat"
	"github.com/Zuo-Peng/chat-analytics/internal/query"
)

func testModel(t *testing.T) model {
	t.Helper()
	engine, err := query.NewEngine(autocorrect.Default(), query.Options{}, zap.NewNop())
	require.NoError(t, err)

	start := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	c := chat.New(time.UTC)
	c.Add(
		chat.Message{Sender: "alice", Timestamp: start, Channel: "c", Content: "hi there"},
		chat.Message{Sender: "bob", Timestamp: start.Add(time.Minute), Channel: "c", Content: "hello"},
	)
	return initialModel(engine, c, "")
}

func answer(t *testing.T, m model, q string) answerMsg {
	t.Helper()
	msg, ok := runQueryCmd(m.engine, m.chat, q)().(answerMsg)
	require.True(t, ok)
	return msg
}

func TestApplyAnswer(t *testing.T) {
	m := testModel(t)
	m.query = "mesages per sendr"

	m = m.applyAnswer(answer(t, m, "mesages per sendr"))
	require.NoError(t, m.err)
	assert.Contains(t, m.rendered, "Messages Per Sender")
	require.NotEmpty(t, m.items)
	assert.Equal(t, item{query: "messages per sender", summary: "2 rows"}, m.items[0])
	assert.Len(t, m.items, len(suggestions)) // already a suggestion, updated in place
	assert.Contains(t, m.statusBar(), `read as "messages per sender"`)
}

func TestApplyAnswer_StaleIgnored(t *testing.T) {
	m := testModel(t)
	m.query = "words per sender"

	m = m.applyAnswer(answer(t, m, "messages per sender"))
	assert.Empty(t, m.rendered)
	assert.Nil(t, m.answer)
}

func TestApplyAnswer_ErrorKeepsLastResult(t *testing.T) {
	m := testModel(t)
	m.query = "words per sender"
	m = m.applyAnswer(answer(t, m, "words per sender"))
	good := m.rendered

	m.query = "words per"
	m = m.applyAnswer(answer(t, m, "words per"))
	assert.Error(t, m.err)
	assert.Equal(t, good, m.rendered)
	assert.Contains(t, m.statusBar(), "incomplete query")
}

func TestRemember_PrependsNewQueries(t *testing.T) {
	m := testModel(t)
	m.query = "words per month"
	m = m.applyAnswer(answer(t, m, "words per month"))

	require.Len(t, m.items, len(suggestions)+1)
	assert.Equal(t, item{query: "words per month", summary: "1 row"}, m.items[0])

	// an aggregate is summarized by its value
	m.query = "total words per sender"
	m = m.applyAnswer(answer(t, m, "total words per sender"))

	require.Len(t, m.items, len(suggestions)+2)
	assert.Equal(t, item{query: "total words per sender", summary: "3"}, m.items[0])
	assert.Equal(t, "words per month", m.items[1].query)
}

func TestPick(t *testing.T) {
	m := testModel(t)
	next, cmd := m.pick(2)
	require.NotNil(t, cmd)
	pm := next.(model)
	assert.True(t, pm.picked)
	assert.Equal(t, suggestions[2], pm.input.Value())
	assert.Equal(t, suggestions[2], pm.query)
}

func TestEnterCopiesRenderedResult(t *testing.T) {
	m := testModel(t)
	m.query = "messages per sender"
	m = m.applyAnswer(answer(t, m, "messages per sender"))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	fm := next.(model)
	assert.True(t, fm.quitting)
	assert.Equal(t, m.rendered, fm.copyOut)
}

func TestSummarize(t *testing.T) {
	a := &query.Answer{Result: &query.Scalar{Target: query.TargetDuration, Value: query.Value{90}}}
	assert.Equal(t, "1m30s", summarize(a))
}
