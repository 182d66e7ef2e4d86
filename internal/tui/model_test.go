package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/crease/internal/innings"
	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/store"
)

func testConfig() model.Config {
	return model.Config{
		BallsPerOver: 6,
		HistoryOrder: model.OrderNewestFirst,
	}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestKeysDriveInnings(t *testing.T) {
	m := NewModel(testConfig(), nil)
	press(m, "4", "1", "w", "0", "6", "d", "2")
	st := m.State()
	if st.TotalRuns() != 14 || st.Wickets() != 1 {
		t.Fatalf("expected 14/1, got %d/%d", st.TotalRuns(), st.Wickets())
	}
	if st.BallsRemaining() != 0 || len(st.CurrentOver()) != 7 {
		t.Fatalf("unexpected over state: %d remaining, %v", st.BallsRemaining(), st.CurrentOver())
	}

	press(m, "3")
	if m.State().TotalRuns() != 14 {
		t.Fatalf("expected recording to be ignored once the over is complete")
	}
	if m.status != "" {
		t.Fatalf("expected silent rejection outside strict mode, got %q", m.status)
	}

	press(m, "enter")
	st = m.State()
	if len(st.Overs()) != 2 || st.BallsRemaining() != 6 {
		t.Fatalf("expected a new over, got %d overs with %d balls", len(st.Overs()), st.BallsRemaining())
	}
	press(m, "n")
	if m.State().TotalRuns() != 15 || m.State().BallsRemaining() != 6 {
		t.Fatalf("no ball must add a run without using a ball")
	}
}

func TestStrictModeExplainsRejections(t *testing.T) {
	cfg := testConfig()
	cfg.Strict = true
	m := NewModel(cfg, nil)
	press(m, "1", "enter")
	if !strings.Contains(m.status, "5 balls remaining") {
		t.Fatalf("unexpected status: %q", m.status)
	}
	press(m, "1", "1", "1", "1", "1", "2")
	if !strings.Contains(m.status, "Over complete") {
		t.Fatalf("unexpected status: %q", m.status)
	}
	press(m, "enter")
	if m.status != "" {
		t.Fatalf("expected status cleared after a valid action, got %q", m.status)
	}
}

func TestAllOutDisablesInput(t *testing.T) {
	cfg := testConfig()
	cfg.MaxWickets = 2
	cfg.Strict = true
	m := NewModel(cfg, nil)
	press(m, "w", "w", "4")
	if !m.State().AllOut() || m.State().TotalRuns() != 0 {
		t.Fatalf("expected all out with no runs added")
	}
	if m.status != "All out" {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestViewShowsScoreboard(t *testing.T) {
	m := NewModel(testConfig(), nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	press(m, "4", "1", "w", "0", "6", "2", "enter", "1")
	view := m.View()
	for _, want := range []string{"14 - 1", "Current Over: 1.1", "Remaining balls this over: 5", "Previous Overs", "Add Over", "01"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPreviousOversNewestFirst(t *testing.T) {
	m := NewModel(testConfig(), nil)
	press(m, "1", "1", "1", "1", "1", "1", "enter", "2", "2", "2", "2", "2", "2", "enter")
	out := m.renderPreviousOvers(0)
	if strings.Index(out, "02") > strings.Index(out, "01") {
		t.Fatalf("expected newest over first:\n%s", out)
	}

	cfg := testConfig()
	cfg.HistoryOrder = model.OrderOldestFirst
	m = NewModel(cfg, nil)
	press(m, "1", "1", "1", "1", "1", "1", "enter", "2", "2", "2", "2", "2", "2", "enter")
	out = m.renderPreviousOvers(0)
	if strings.Index(out, "01") > strings.Index(out, "02") {
		t.Fatalf("expected oldest over first:\n%s", out)
	}
}

func TestQuitArchivesInnings(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "crease.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	cfg := testConfig()
	cfg.Team = "Lions"
	m := NewModel(cfg, st)
	fixed := time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	press(m, "4", "d", "w")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if m.ArchiveErr() != nil {
		t.Fatalf("archive failed: %v", m.ArchiveErr())
	}

	list, err := st.ListInnings(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list innings: %v", err)
	}
	if len(list) != 1 || list[0].Team != "Lions" || list[0].TotalRuns != 5 || list[0].Wickets != 1 {
		t.Fatalf("unexpected archive: %+v", list)
	}
	if !list[0].EndedAt.Equal(fixed) {
		t.Fatalf("unexpected end time: %v", list[0].EndedAt)
	}

	m.finishInnings()
	list, err = st.ListInnings(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list innings: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected the innings to be archived once, got %d", len(list))
	}
}

func TestQuitSkipsEmptyInnings(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "crease.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	m := NewModel(testConfig(), st)
	press(m, "q")
	list, err := st.ListInnings(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list innings: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected nothing archived, got %d", len(list))
	}
}

func TestWrapChips(t *testing.T) {
	chips := buildChips(innings.Over{innings.WideBall(), innings.NoBall(), innings.Wicket()})
	if chips[0].width != 4 || chips[2].width != 3 {
		t.Fatalf("unexpected chip widths: %d, %d", chips[0].width, chips[2].width)
	}
	out := wrapChips(chips, 9)
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d:\n%s", len(lines), out)
	}
	if strings.Contains(wrapChips(chips, 0), "\n") {
		t.Fatalf("expected no wrapping without a width")
	}
}
