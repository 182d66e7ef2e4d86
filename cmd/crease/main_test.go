package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/crease/internal/config"
	"github.com/verte-zerg/crease/internal/innings"
	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/store"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTallyPrintsScorecard(t *testing.T) {
	isolate(t)
	out, err := execute(t, "tally", "--auto-advance", "--team", "Lions", "4", "1", "W", "0", "6", "2", "1")
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	for _, want := range []string{"Lions", "Score: 14 - 1", "Overs: 1.1", "Remaining balls this over: 5", "Previous Overs"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTallyStopsAtCompleteOver(t *testing.T) {
	isolate(t)
	out, err := execute(t, "tally", "1", "1", "1", "1", "1", "1", "4")
	if !errors.Is(err, innings.ErrOverComplete) {
		t.Fatalf("expected ErrOverComplete, got %v", err)
	}
	if !strings.Contains(out, "Score: 6 - 0") {
		t.Fatalf("expected the scorecard before the rejection:\n%s", out)
	}
}

func TestTallyReadsScriptAndArchives(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "innings.txt")
	if err := os.WriteFile(path, []byte("# first over\n0 0 WB 4 0 0 0\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := execute(t, "tally", "--file", path, "--archive", "--team", "Tigers"); err != nil {
		t.Fatalf("tally: %v", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	list, err := st.ListInnings(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list innings: %v", err)
	}
	if len(list) != 1 || list[0].Team != "Tigers" || list[0].TotalRuns != 5 || list[0].Extras != 1 {
		t.Fatalf("unexpected archive: %+v", list)
	}
}

func TestTallyRejectsArgsWithFile(t *testing.T) {
	if _, err := loadTallyOutcomes(strings.NewReader(""), "x.txt", []string{"1"}); err == nil {
		t.Fatalf("expected error for both arguments and --file")
	}
	if _, err := loadTallyOutcomes(strings.NewReader(""), "", nil); err == nil {
		t.Fatalf("expected error without outcomes")
	}
	outcomes, err := loadTallyOutcomes(strings.NewReader("1 NB\n"), "-", nil)
	if err != nil || len(outcomes) != 2 {
		t.Fatalf("unexpected stdin outcomes: %v, %v", outcomes, err)
	}
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "crease", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := "[innings]\nballs-per-over = 4\n\n[display]\nhistory-order = \"oldest-first\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := execute(t, "tally", "1", "1", "1", "1")
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if !strings.Contains(out, "Overs: 1.0") || !strings.Contains(out, "Remaining balls this over: 0") {
		t.Fatalf("expected four-ball overs:\n%s", out)
	}

	out, err = execute(t, "tally", "--balls-per-over", "6", "1", "1", "1", "1")
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if !strings.Contains(out, "Overs: 0.4") {
		t.Fatalf("expected the flag to win over the file:\n%s", out)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{BallsPerOver: 6, HistoryOrder: model.OrderNewestFirst}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := valid
	bad.BallsPerOver = 0
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected balls-per-over error")
	}
	bad = valid
	bad.BallsPerOver = 10
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected balls-per-over above 9 to be rejected")
	}
	nine := valid
	nine.BallsPerOver = 9
	if err := validateConfig(nine); err != nil {
		t.Fatalf("nine balls per over must be valid: %v", err)
	}
	bad = valid
	bad.MaxWickets = -1
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected max-wickets error")
	}
	bad = valid
	bad.HistoryOrder = "sideways"
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected history-order error")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template must decode: %v", err)
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	isolate(t)
	a, err := execute(t, "simulate", "--overs", "2", "--seed", "11")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	b, err := execute(t, "simulate", "--overs", "2", "--seed", "11")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical output for the same seed")
	}
	if !strings.Contains(a, "Overs: 2.0") || !strings.Contains(a, "Runs per over") {
		t.Fatalf("unexpected simulate output:\n%s", a)
	}
}

func TestSimulateUniformChangesTheDraw(t *testing.T) {
	isolate(t)
	weighted, err := execute(t, "simulate", "--overs", "20", "--seed", "5")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	uniform, err := execute(t, "simulate", "--overs", "20", "--seed", "5", "--uniform")
	if err != nil {
		t.Fatalf("simulate --uniform: %v", err)
	}
	if weighted == uniform {
		t.Fatalf("expected --uniform to change the innings")
	}
	if !strings.Contains(uniform, "Overs: 20.0") {
		t.Fatalf("unexpected uniform output:\n%s", uniform)
	}
}

func TestTallyRejectsLongOvers(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "tally", "--balls-per-over", "10", "1"); err == nil {
		t.Fatalf("expected an error for ten-ball overs")
	}
}

func TestSummaryWithEmptyArchive(t *testing.T) {
	isolate(t)
	out, err := execute(t, "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "No innings found.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
