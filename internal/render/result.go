package render

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Zuo-Peng/chat-analytics/internal/query"
)

const missingCell = "-"

var titleCaser = cases.Title(language.English)

// RenderResult lays out a query result as plain text under a title made
// from title. Two-level series become a pivot table with the x-axis
// values as rows and the legend values as columns.
func RenderResult(title string, res query.Result) (string, error) {
	var b strings.Builder
	if title != "" {
		b.WriteString(titleCaser.String(title))
		b.WriteString("\n\n")
	}

	switch r := res.(type) {
	case *query.Scalar:
		b.WriteString(FormatValue(r.Target, r.Value))
		b.WriteString("\n")
	case *query.Series:
		axes, err := query.ChooseAxes(r)
		var tooMany *query.TooManyGroupsError
		switch {
		case errors.As(err, &tooMany):
			writeTable(&b, longTable(r))
		case err != nil:
			return "", err
		case axes.HasLegend():
			writeTable(&b, pivotTable(r, axes))
		default:
			writeTable(&b, longTable(r))
		}
	default:
		return "", fmt.Errorf("render: unsupported result %T", res)
	}
	return b.String(), nil
}

// FormatValue formats a value for display. Durations are stored in
// seconds.
func FormatValue(target query.Target, v query.Value) string {
	parts := make([]string, len(v))
	for i, x := range v {
		if target == query.TargetDuration {
			parts[i] = FormatDuration(time.Duration(x * float64(time.Second)))
		} else {
			parts[i] = formatNumber(x)
		}
	}
	return strings.Join(parts, ", ")
}

func formatNumber(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return humanize.Comma(int64(x))
	}
	return humanize.CommafWithDigits(x, 2)
}

// FormatDuration rounds to seconds, e.g. "1h2m3s".
func FormatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}

type table struct {
	header  []string
	rows    [][]string
	numFrom int // columns from here on are right-aligned
}

// longTable has one column per group followed by the value.
func longTable(s *query.Series) table {
	t := table{numFrom: len(s.Groups)}
	for _, g := range s.Groups {
		t.header = append(t.header, string(g))
	}
	t.header = append(t.header, valueHeader(s))
	for _, r := range s.Rows {
		row := make([]string, 0, len(r.Keys)+1)
		for _, k := range r.Keys {
			row = append(row, k.Label)
		}
		t.rows = append(t.rows, append(row, FormatValue(s.Target, r.Value)))
	}
	return t
}

func pivotTable(s *query.Series, axes query.Axes) table {
	xs, legend := s.Levels(axes.XLevel), s.Levels(axes.LegendLevel)
	t := table{numFrom: 1, header: append([]string{string(axes.X)}, legend...)}
	labels := make([]string, 2)
	for _, x := range xs {
		row := []string{x}
		for _, l := range legend {
			labels[axes.XLevel], labels[axes.LegendLevel] = x, l
			if v, ok := s.Lookup(labels...); ok {
				row = append(row, FormatValue(s.Target, v))
			} else {
				row = append(row, missingCell)
			}
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func valueHeader(s *query.Series) string {
	if s.Op != "" {
		return string(s.Op) + " " + string(s.Target)
	}
	return string(s.Target)
}

func writeTable(b *strings.Builder, t table) {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			switch {
			case i >= t.numFrom:
				b.WriteString(runewidth.FillLeft(c, widths[i]))
			case i == len(cells)-1:
				b.WriteString(c)
			default:
				b.WriteString(runewidth.FillRight(c, widths[i]))
			}
		}
		b.WriteString("\n")
	}

	writeRow(t.header)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	writeRow(rule)
	for _, r := range t.rows {
		writeRow(r)
	}
}
