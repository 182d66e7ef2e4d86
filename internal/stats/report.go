package stats

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/crease/internal/innings"
	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Innings  []model.InningsSummary
	Outcomes []model.OutcomeAggregate
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	list, err := st.ListInnings(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list innings: %w", err)
	}
	outcomes, err := st.ListOutcomeCounts(ctx, inningsIDs(list))
	if err != nil {
		return Report{}, fmt.Errorf("failed to count outcomes: %w", err)
	}
	return Report{
		Innings:  list,
		Outcomes: SortOutcomes(outcomes),
	}, nil
}

// SortOutcomes orders aggregates by the scoreboard alphabet. Tokens outside
// the alphabet sort last by name.
func SortOutcomes(aggs []model.OutcomeAggregate) []model.OutcomeAggregate {
	rank := map[string]int{}
	for i, o := range innings.Outcomes() {
		rank[o.String()] = i
	}
	out := make([]model.OutcomeAggregate, len(aggs))
	copy(out, aggs)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].Outcome]
		rj, jok := rank[out[j].Outcome]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i].Outcome < out[j].Outcome
		}
	})
	return out
}

// TopOutcomes returns the n most frequent outcome tokens.
func TopOutcomes(aggs []model.OutcomeAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.OutcomeAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count == sorted[j].Count {
			return sorted[i].Outcome < sorted[j].Outcome
		}
		return sorted[i].Count > sorted[j].Count
	})
	n = min(n, len(sorted))
	out := make([]string, 0, n)
	for _, agg := range sorted[:n] {
		out = append(out, agg.Outcome)
	}
	return out
}

// RenderOutcomeTable prints how often each outcome was recorded.
func RenderOutcomeTable(w io.Writer, aggs []model.OutcomeAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No deliveries found.")
		return err
	}
	total := 0
	for _, agg := range aggs {
		total += agg.Count
	}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range SortOutcomes(aggs) {
		rows = append(rows, []string{
			agg.Outcome,
			fmt.Sprintf("%d", agg.Count),
			fmt.Sprintf("%.1f%%", float64(agg.Count)/float64(total)*100),
		})
	}
	if _, err := fmt.Fprintln(w, "Outcomes"); err != nil {
		return err
	}
	for _, line := range formatTable([]string{"Ball", "Count", "Share"}, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func inningsIDs(list []model.InningsSummary) []int64 {
	ids := make([]int64, len(list))
	for i, s := range list {
		ids[i] = s.InningsID
	}
	return ids
}
