package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/crease/internal/innings"
)

type chip struct {
	s     string
	width int
}

func chipStyleFor(o innings.Outcome) func(...string) string {
	switch o.Kind() {
	case innings.KindWicket:
		return wicketChipStyle.Render
	case innings.KindWide, innings.KindNoBall:
		return extraChipStyle.Render
	default:
		return runChipStyle.Render
	}
}

func buildChips(over innings.Over) []chip {
	out := make([]chip, 0, len(over))
	for _, o := range over {
		label := o.String()
		out = append(out, chip{
			s:     chipStyleFor(o)(label),
			width: runewidth.StringWidth(label) + chipPadding,
		})
	}
	return out
}

// wrapChips lays chips out in rows no wider than width, one space apart.
// A chip wider than width gets a row of its own.
func wrapChips(chips []chip, width int) string {
	if len(chips) == 0 {
		return ""
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, c := range chips {
		if lineWidth > 0 && width > 0 && lineWidth+1+c.width > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(c.s)
		lineWidth += c.width
	}
	lines = append(lines, line.String())
	return strings.Join(lines, "\n")
}
