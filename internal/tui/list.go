package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-analytics/internal/query"
	"github.com/Zuo-Peng/chat-analytics/internal/render"
)

// linesPerItem is the number of terminal lines each query occupies.
const linesPerItem = 2

// suggestions seed the query list before anything has been answered.
var suggestions = []string{
	"messages per sender",
	"messages per month and sender",
	"words per week",
	"average words per message per sender",
	"mean messages per conversation",
	"median duration per conversation per month",
	"max messages per day by sender",
	"standard deviation of characters per message",
}

// item is one entry of the query list: an answered query or a suggestion.
type item struct {
	query   string
	summary string // empty for suggestions that have not been run
}

func suggestionItems() []item {
	items := make([]item, len(suggestions))
	for i, s := range suggestions {
		items[i] = item{query: s}
	}
	return items
}

// summarize describes an answer in one line.
func summarize(a *query.Answer) string {
	switch r := a.Result.(type) {
	case *query.Scalar:
		return render.FormatValue(r.Target, r.Value)
	case *query.Series:
		if len(r.Rows) == 1 {
			return "1 row"
		}
		return fmt.Sprintf("%d rows", len(r.Rows))
	default:
		return ""
	}
}

// remember records an answered query, updating it in place when it is
// already listed and otherwise prepending it.
func (m *model) remember(a *query.Answer) {
	it := item{query: a.Corrected, summary: summarize(a)}
	for i := range m.items {
		if m.items[i].query == it.query {
			m.items[i] = it
			return
		}
	}
	m.items = append([]item{it}, m.items...)
	if m.picked {
		m.cursor++ // keep the same entry selected
	}
	m.adjustListScroll(m.panelHeight())
}

// renderList renders the left panel: the query list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.items) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No queries")
		return empty
	}

	var lines []string
	for i, it := range m.items {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatItemLine(it, width, m.picked && i == m.cursor)...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatItemLine formats a query as two lines:
//
//	line 1: [>] query
//	line 2:    answer summary (dimmed)
func formatItemLine(it item, width int, selected bool) []string {
	q := it.query
	queryMax := width - 2
	if queryMax < 0 {
		queryMax = 0
	}
	if runewidth.StringWidth(q) > queryMax {
		q = runewidth.Truncate(q, queryMax, "…")
	}

	var line1 string
	switch {
	case selected:
		line1 = styleListSelected.Render("> " + q)
	case it.summary != "":
		line1 = "  " + styleListAnswered.Render(q)
	default:
		line1 = "  " + q
	}

	summary := it.summary
	if summary == "" {
		summary = "suggestion"
	}
	summaryMax := width - 4 // indent
	if summaryMax < 0 {
		summaryMax = 0
	}
	if runewidth.StringWidth(summary) > summaryMax {
		summary = runewidth.Truncate(summary, summaryMax, "")
	}
	line2 := "    " + styleListSummary.Render(summary)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
