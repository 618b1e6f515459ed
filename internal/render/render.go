package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

const (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

// senderColors are assigned to senders in order of first appearance.
var senderColors = []string{
	"\033[1;34m", // bold blue
	"\033[1;32m", // bold green
	"\033[1;35m", // bold magenta
	"\033[1;36m", // bold cyan
	"\033[1;33m", // bold yellow
}

type Options struct {
	Width     int    // wrap width (0 = no wrap)
	Highlight string // words to highlight in message text
	Limit     int    // messages to show from the start (0 = all)
	Plain     bool   // no ANSI colors
}

// highlightKeywords wraps case-insensitive matches of the given words in bold red ANSI codes.
func highlightKeywords(text, words string) string {
	for _, term := range strings.Fields(words) {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// paint wraps s in the given color unless o asks for plain output.
func (o Options) paint(color, s string) string {
	if o.Plain {
		return s
	}
	return color + s + colorReset
}

// RenderConversation renders one conversation of c as a transcript.
func RenderConversation(c *chat.Chat, id int, opts Options) (string, error) {
	conv, msgs, ok := c.Conversation(id)
	if !ok {
		return "", fmt.Errorf("conversation not found: %d", id)
	}

	shown := msgs
	if opts.Limit > 0 && len(shown) > opts.Limit {
		shown = shown[:opts.Limit]
	}
	skipAfter := len(msgs) - len(shown)

	var b strings.Builder
	separator := opts.paint(colorDim, "--------------------------------------------------")

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	// header
	writeLine(opts.paint(colorDim, fmt.Sprintf("--- #%d [%s] %s · %s · %s messages · %s ---",
		conv.ID, msgs[0].Source, conv.Channel,
		conv.StartTimestamp.Format("2006-01-02 15:04"),
		humanize.Comma(int64(conv.Len())),
		FormatDuration(conv.Duration()))))

	colors := make(map[string]string)
	for i, m := range shown {
		if i > 0 {
			writeLine(separator)
		}

		color, ok := colors[m.Sender]
		if !ok {
			color = senderColors[len(colors)%len(senderColors)]
			colors[m.Sender] = color
		}
		writeLine(opts.paint(color, m.Sender+" >") + " " + opts.paint(colorDim, m.Timestamp.Format("15:04:05")))

		text := m.Content
		if !opts.Plain {
			text = highlightKeywords(text, opts.Highlight)
		}
		for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
			writeLine(tl)
		}
		writeLine("") // blank line after message
	}

	if skipAfter > 0 {
		writeLine(opts.paint(colorDim, fmt.Sprintf("... (%d messages after) ...", skipAfter)))
	}

	return b.String(), nil
}
