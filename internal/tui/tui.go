package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
	"github.com/Zuo-Peng/chat-analytics/internal/query"
)

const debounceDelay = 200 * time.Millisecond

type debounceTickMsg struct {
	query string
}

type model struct {
	engine *query.Engine
	chat   *chat.Chat

	query    string
	answer   *query.Answer
	rendered string
	err      error

	items      []item
	cursor     int
	picked     bool // cursor is on an entry the user chose from the list
	listOffset int

	input    textinput.Model
	result   viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool
	copyOut  string
}

func initialModel(engine *query.Engine, c *chat.Chat, q string) model {
	ti := textinput.New()
	ti.Placeholder = "average words per message per sender"
	ti.Focus()
	ti.SetValue(q)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		engine: engine,
		chat:   c,
		query:  q,
		items:  suggestionItems(),
		input:  ti,
		result: viewport.New(0, 0),
	}
}

// Run starts the query console and blocks until it exits. If the user
// presses Enter on an answer, the rendered result is copied to the
// clipboard.
func Run(engine *query.Engine, c *chat.Chat, q string) error {
	// queries run on background goroutines; they must only read the
	// fingerprint, never compute it
	c.Hash()

	m := initialModel(engine, c, q)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.copyOut != "" {
		return copyResult(fm.copyOut)
	}
	return nil
}

// copyResult puts a rendered result on the clipboard, falling back to
// stdout when no clipboard is available.
func copyResult(out string) error {
	if err := clipboard.WriteAll(out); err != nil {
		fmt.Print(out)
		return nil
	}
	fmt.Printf("Copied result to clipboard (%d lines)\n", strings.Count(out, "\n"))
	return nil
}

// Init triggers the initial query.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.query != "" {
		cmds = append(cmds, runQueryCmd(m.engine, m.chat, m.query))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.result = newViewport(m.resultWidth(), m.panelHeight())
		m.result.SetContent(m.rendered)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if m.rendered != "" && m.err == nil {
				m.copyOut = m.rendered
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, keys.Up):
			if !m.picked && len(m.items) > 0 {
				return m.pick(0)
			}
			if m.cursor > 0 {
				return m.pick(m.cursor - 1)
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if !m.picked && len(m.items) > 0 {
				return m.pick(0)
			}
			if m.cursor < len(m.items)-1 {
				return m.pick(m.cursor + 1)
			}
			return m, nil

		case key.Matches(msg, keys.ResultUp):
			m.result.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.ResultDn):
			m.result.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.result.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.result.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.input, tiCmd = m.input.Update(msg)
		cmds = append(cmds, tiCmd)

		// Check if query changed
		newQuery := m.input.Value()
		if newQuery != m.query {
			m.query = newQuery
			m.picked = false
			cmds = append(cmds, scheduleDebouncedQuery(newQuery))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			visibleItems := m.panelHeight() / linesPerItem
			maxOffset := max(len(m.items)-visibleItems, 0)
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.items) {
				return m.pick(itemIdx)
			}
			return m, nil

		case region == regionResult && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.result, vpCmd = m.result.Update(msg)
			return m, vpCmd
		}

		return m, nil

	case debounceTickMsg:
		// Only run if the query hasn't changed since the tick was scheduled
		if msg.query == m.query {
			if strings.TrimSpace(msg.query) == "" {
				m.answer, m.err = nil, nil
				return m, nil
			}
			cmds = append(cmds, runQueryCmd(m.engine, m.chat, msg.query))
		}
		return m, tea.Batch(cmds...)

	case answerMsg:
		return m.applyAnswer(msg), nil
	}

	return m, tea.Batch(cmds...)
}

// pick selects a list entry, copies it into the input and runs it
// immediately.
func (m model) pick(i int) (tea.Model, tea.Cmd) {
	m.cursor = i
	m.picked = true
	m.adjustListScroll(m.panelHeight())
	m.query = m.items[i].query
	m.input.SetValue(m.query)
	m.input.CursorEnd()
	return m, runQueryCmd(m.engine, m.chat, m.query)
}

// applyAnswer shows a finished query unless the input has moved on. A
// failed query keeps the last good result on screen.
func (m model) applyAnswer(msg answerMsg) model {
	if msg.query != m.query {
		return m // stale
	}
	m.answer, m.err = msg.answer, msg.err
	if msg.err != nil {
		return m
	}
	m.rendered = msg.rendered
	m.result.SetContent(msg.rendered)
	m.result.GotoTop()
	m.remember(msg.answer)
	return m
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	resultW := m.resultWidth()
	panelH := m.panelHeight()

	inputRow := m.input.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.result.Width = resultW
	m.result.Height = panelH
	resultPanel := styleActiveBorder.
		Width(resultW).
		Height(panelH).
		Render(m.result.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, resultPanel)

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	return max(m.width*40/100-4, 20)
}

func (m model) resultWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for result, minus border padding
	return max(m.width*60/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionResult
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}
	if x > listBoxRight+1 {
		return regionResult, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	var parts []string
	switch {
	case m.err != nil:
		parts = append(parts, styleError.Render(errorText(m.err)))
	case m.answer != nil && m.answer.WasCorrected():
		parts = append(parts, styleWarning.Render(fmt.Sprintf("read as %q", m.answer.Corrected)))
	}
	parts = append(parts, humanize.Comma(int64(m.chat.Len()))+" messages")
	parts = append(parts, "up/dn queries")
	parts = append(parts, "C-u/C-d scroll")
	parts = append(parts, "Enter copy")
	parts = append(parts, "Esc quit")
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// errorText keeps the status line short for the errors users hit while
// typing.
func errorText(err error) string {
	var invalid *query.InvalidQueryError
	var token *query.InvalidTokenError
	switch {
	case errors.As(err, &token):
		return token.Error()
	case errors.As(err, &invalid):
		return "incomplete query"
	default:
		return err.Error()
	}
}

func scheduleDebouncedQuery(q string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: q}
	})
}
