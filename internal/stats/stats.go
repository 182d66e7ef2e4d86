// Package stats contains scoring calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/crease/internal/innings"
	"github.com/verte-zerg/crease/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RunRate returns runs per over for the legal balls bowled.
func RunRate(runs, legalBalls, ballsPerOver int) float64 {
	if legalBalls <= 0 {
		return 0
	}
	if ballsPerOver <= 0 {
		ballsPerOver = innings.DefaultBallsPerOver
	}
	return float64(runs) / (float64(legalBalls) / float64(ballsPerOver))
}

// BuildRecord converts an innings snapshot into an archive record.
func BuildRecord(st innings.State, team string, startedAt, endedAt time.Time) model.InningsRecord {
	rec := model.InningsRecord{
		StartedAt:    startedAt,
		EndedAt:      endedAt,
		Team:         team,
		BallsPerOver: st.Rules().BallsPerOver,
		TotalRuns:    st.TotalRuns(),
		Wickets:      st.Wickets(),
		Extras:       st.Extras(),
		LegalBalls:   st.LegalBalls(),
	}
	for overNo, over := range st.Overs() {
		for seq, o := range over {
			rec.Deliveries = append(rec.Deliveries, model.Delivery{
				Over:    overNo,
				Seq:     seq,
				Outcome: o.String(),
			})
		}
	}
	return rec
}

// RunsPerOver totals each over given as scoreboard tokens. Unknown tokens
// count as zero.
func RunsPerOver(overs [][]string) []int {
	out := make([]int, len(overs))
	for i, over := range overs {
		for _, token := range over {
			o, err := innings.ParseOutcome(token)
			if err != nil {
				continue
			}
			out[i] += o.Classify().Runs
		}
	}
	return out
}

// Worm returns the cumulative score at the end of each over.
func Worm(runsPerOver []int) []float64 {
	out := make([]float64, len(runsPerOver))
	total := 0
	for i, r := range runsPerOver {
		total += r
		out[i] = float64(total)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// OverLabel numbers an over for display, 1-based and zero padded.
func OverLabel(index int) string {
	return fmt.Sprintf("%02d", index+1)
}

// OrderedOvers returns completed overs with their zero-based index in the
// requested display order.
func OrderedOvers(completed []innings.Over, order string) ([]int, []innings.Over) {
	idx := make([]int, len(completed))
	out := make([]innings.Over, len(completed))
	for i := range completed {
		src := i
		if order != model.OrderOldestFirst {
			src = len(completed) - 1 - i
		}
		idx[i] = src
		out[i] = completed[src]
	}
	return idx, out
}

// RenderScorecard prints the live scoreboard for an innings snapshot.
func RenderScorecard(w io.Writer, st innings.State, team, order string) error {
	title := "Innings"
	if team != "" {
		title = team
	}
	lines := []string{
		title,
		fmt.Sprintf("Score: %d - %d", st.TotalRuns(), st.Wickets()),
		fmt.Sprintf("Overs: %s  (run rate %.2f)", st.OversDisplay(), RunRate(st.TotalRuns(), st.LegalBalls(), st.Rules().BallsPerOver)),
		fmt.Sprintf("Extras: %d", st.Extras()),
		fmt.Sprintf("Remaining balls this over: %d", st.BallsRemaining()),
		fmt.Sprintf("Current over: %s", strings.Join(st.CurrentOver().Strings(), " ")),
	}
	if st.AllOut() {
		lines = append(lines, "All out")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	completed := st.CompletedOvers()
	if len(completed) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nPrevious Overs"); err != nil {
		return err
	}
	indices, ordered := OrderedOvers(completed, order)
	rows := make([][]string, 0, len(ordered))
	for i, over := range ordered {
		rows = append(rows, []string{
			OverLabel(indices[i]),
			strings.Join(over.Strings(), " "),
			fmt.Sprintf("%d", over.Runs()),
		})
	}
	for _, line := range formatTable([]string{"Over", "Balls", "Runs"}, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary prints a summary for archived innings.
func RenderSummary(w io.Writer, list []model.InningsSummary) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No innings found.")
		return err
	}
	var totalRuns, totalWickets, best int
	var totalRate float64
	for _, s := range list {
		totalRuns += s.TotalRuns
		totalWickets += s.Wickets
		totalRate += RunRate(s.TotalRuns, s.LegalBalls, s.BallsPerOver)
		best = max(best, s.TotalRuns)
	}
	count := float64(len(list))
	lines := []string{
		"Summary",
		fmt.Sprintf("Innings: %d", len(list)),
		fmt.Sprintf("Avg score: %.1f", float64(totalRuns)/count),
		fmt.Sprintf("Best score: %d", best),
		fmt.Sprintf("Avg wickets: %.1f", float64(totalWickets)/count),
		fmt.Sprintf("Avg run rate: %.2f", totalRate/count),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderInningsTable prints one row per archived innings.
func RenderInningsTable(w io.Writer, list []model.InningsSummary) error {
	if len(list) == 0 {
		return nil
	}
	headers := []string{"ID", "Ended", "Team", "Score", "Overs", "Extras", "RR"}
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, InningsRow(s))
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 4: true, 5: true, 6: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// InningsRow formats an archived innings as table cells.
func InningsRow(s model.InningsSummary) []string {
	team := s.Team
	if team == "" {
		team = "-"
	}
	return []string{
		fmt.Sprintf("%d", s.InningsID),
		s.EndedAt.Local().Format("2006-01-02 15:04"),
		team,
		fmt.Sprintf("%d - %d", s.TotalRuns, s.Wickets),
		innings.FormatOvers(s.LegalBalls, s.BallsPerOver),
		fmt.Sprintf("%d", s.Extras),
		fmt.Sprintf("%.2f", RunRate(s.TotalRuns, s.LegalBalls, s.BallsPerOver)),
	}
}
