package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/crease/internal/innings"
)

// OverBar is one column of a Manhattan chart.
type OverBar struct {
	Runs    int
	Wickets int
}

const (
	defaultChartHeight  = 8
	barWidth            = 3
	axisSeparator       = " | "
	colorWicket         = "\x1b[31m"
	colorBar            = "\x1b[36m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// BarsFromOvers builds Manhattan columns from overs given as scoreboard tokens.
func BarsFromOvers(overs [][]string) []OverBar {
	bars := make([]OverBar, len(overs))
	for i, over := range overs {
		for _, token := range over {
			o, err := innings.ParseOutcome(token)
			if err != nil {
				continue
			}
			c := o.Classify()
			bars[i].Runs += c.Runs
			if c.Wicket {
				bars[i].Wickets++
			}
		}
	}
	return bars
}

// ChartColumnsFor returns how many overs fit in the given total width.
func ChartColumnsFor(totalWidth, maxRuns int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	axisWidth := len(fmt.Sprintf("%d", maxRuns)) + len(axisSeparator)
	return max(1, (totalWidth-axisWidth)/barWidth)
}

// RenderManhattan prints runs per over as vertical bars. Overs with a wicket
// are marked below the axis. When the chart is wider than totalWidth only the
// most recent overs are drawn.
func RenderManhattan(w io.Writer, bars []OverBar, totalWidth, height int, useColor bool) error {
	if len(bars) == 0 {
		_, err := fmt.Fprintln(w, "No overs bowled.")
		return err
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	maxRuns := 1
	for _, b := range bars {
		maxRuns = max(maxRuns, b.Runs)
	}
	first := 0
	if cols := ChartColumnsFor(totalWidth, maxRuns); len(bars) > cols {
		first = len(bars) - cols
	}
	visible := bars[first:]
	labelWidth := len(fmt.Sprintf("%d", maxRuns))

	if _, err := fmt.Fprintf(w, "Runs per over (overs %d-%d)\n", first+1, len(bars)); err != nil {
		return err
	}
	for row := height; row >= 1; row-- {
		label := ""
		switch row {
		case height:
			label = fmt.Sprintf("%d", maxRuns)
		case 1:
			label = "0"
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%*s%s", labelWidth, label, axisSeparator))
		for _, bar := range visible {
			level := (bar.Runs*height + maxRuns - 1) / maxRuns
			filled := level >= row
			cell := strings.Repeat(" ", barWidth)
			if filled {
				cell = "## "
				if useColor {
					color := colorBar
					if bar.Wickets > 0 {
						color = colorWicket
					}
					cell = color + "##" + colorReset + " "
				}
			}
			b.WriteString(cell)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}

	var marks strings.Builder
	marks.WriteString(strings.Repeat(" ", labelWidth) + axisSeparator)
	for _, bar := range visible {
		switch {
		case bar.Wickets > 1:
			marks.WriteString(fmt.Sprintf("%-*s", barWidth, fmt.Sprintf("W%d", bar.Wickets)))
		case bar.Wickets == 1:
			marks.WriteString(fmt.Sprintf("%-*s", barWidth, "W"))
		default:
			marks.WriteString(strings.Repeat(" ", barWidth))
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(marks.String(), " "))
	return err
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether ANSI colours should be written to w.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
