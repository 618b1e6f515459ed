package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
	"github.com/Zuo-Peng/chat-analytics/internal/query"
	"github.com/Zuo-Peng/chat-analytics/internal/render"
)

// answerMsg is sent when an async query completes.
type answerMsg struct {
	query    string
	answer   *query.Answer
	rendered string
	err      error
}

// runQueryCmd returns a tea.Cmd that answers and renders q async.
func runQueryCmd(engine *query.Engine, c *chat.Chat, q string) tea.Cmd {
	return func() tea.Msg {
		a, err := engine.Ask(c, q)
		msg := answerMsg{query: q, answer: a, err: err}
		if err != nil {
			return msg
		}
		msg.rendered, msg.err = render.RenderResult(a.Corrected, a.Result)
		return msg
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	return viewport.New(width, height)
}
