// Package main provides the CLI entrypoint for crease.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/crease/internal/config"
	"github.com/verte-zerg/crease/internal/generator"
	"github.com/verte-zerg/crease/internal/historyui"
	"github.com/verte-zerg/crease/internal/innings"
	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/script"
	"github.com/verte-zerg/crease/internal/stats"
	"github.com/verte-zerg/crease/internal/store"
	"github.com/verte-zerg/crease/internal/tui"
)

const (
	defaultOvers       = 5
	defaultChartHeight = 8
	defaultTopOutcomes = 3
	maxBallsPerOver    = 9
)

var (
	scoreTeam         string
	scoreBallsPerOver int
	scoreMaxWickets   int
	scoreHistoryOrder string
	scoreStrict       bool
	scoreArchive      bool
	scoreDBPath       string

	headlessArchive bool

	tallyFile        string
	tallyAutoAdvance bool

	simulateOvers   int
	simulateSeed    int64
	simulateUniform bool
	simulateColor   bool

	historyTeam  string
	historySince string
	historyLast  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "crease",
		Short:         "TUI cricket innings scorer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runScoreCmd,
	}
	addScoringFlags(rootCmd)
	rootCmd.Flags().BoolVar(&scoreStrict, "strict", false, "explain rejected inputs in the status line")
	rootCmd.Flags().BoolVar(&scoreArchive, "archive", true, "archive the innings scorecard on quit")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTallyCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSummaryCmd())

	return rootCmd
}

func addScoringFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scoreTeam, "team", "", "batting team name")
	cmd.Flags().IntVar(&scoreBallsPerOver, "balls-per-over", innings.DefaultBallsPerOver, "legal balls per over (1-9)")
	cmd.Flags().IntVar(&scoreMaxWickets, "max-wickets", 0, "wickets that end the innings (0: uncapped)")
	cmd.Flags().StringVar(&scoreHistoryOrder, "history-order", model.OrderNewestFirst, "previous overs order (newest-first|oldest-first)")
	cmd.Flags().StringVar(&scoreDBPath, "db", "", "archive database path")
}

// resolveConfig merges the config file into the scoring flags that were not set explicitly.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "balls-per-over", &scoreBallsPerOver, fileCfg.Innings.BallsPerOver)
	applyIntConfig(cmd, "max-wickets", &scoreMaxWickets, fileCfg.Innings.MaxWickets)
	applyStringConfig(cmd, "history-order", &scoreHistoryOrder, fileCfg.Display.HistoryOrder)
	applyBoolConfig(cmd, "strict", &scoreStrict, fileCfg.Display.Strict)
	applyBoolConfig(cmd, "archive", &scoreArchive, fileCfg.Archive.Enabled)
	applyStringConfig(cmd, "db", &scoreDBPath, fileCfg.Archive.Path)

	cfg := model.Config{
		Team:         strings.TrimSpace(scoreTeam),
		BallsPerOver: scoreBallsPerOver,
		MaxWickets:   scoreMaxWickets,
		HistoryOrder: scoreHistoryOrder,
		Strict:       scoreStrict,
		Archive:      scoreArchive,
		ArchivePath:  resolveDBPath(scoreDBPath),
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var st *store.Store
	if cfg.Archive {
		st, err = store.Open(cfg.ArchivePath)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	scorer := tui.NewModel(cfg, st)
	program := tea.NewProgram(scorer, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := scorer.ArchiveErr(); err != nil {
		logErrf("%v\n", err)
	}
	return stats.RenderScorecard(cmd.OutOrStdout(), scorer.State(), cfg.Team, cfg.HistoryOrder)
}

func newTallyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tally [outcome...]",
		Short: "Score a sequence of outcomes without the TUI",
		Long: "Score a sequence of outcomes (0-6, WB, NB, W) given as arguments or read\n" +
			"from a script file, then print the scorecard.",
		RunE: runTallyCmd,
	}
	addScoringFlags(cmd)
	cmd.Flags().BoolVar(&headlessArchive, "archive", false, "archive the resulting scorecard")
	cmd.Flags().StringVar(&tallyFile, "file", "", "read outcomes from a script file ('-' for stdin)")
	cmd.Flags().BoolVar(&tallyAutoAdvance, "auto-advance", false, "start the next over automatically")
	return cmd
}

func runTallyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	outcomes, err := loadTallyOutcomes(cmd.InOrStdin(), tallyFile, args)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	state, recordErr := innings.New(rulesFor(cfg)).RecordAll(outcomes, tallyAutoAdvance)
	if err := stats.RenderScorecard(cmd.OutOrStdout(), state, cfg.Team, cfg.HistoryOrder); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if recordErr != nil {
		return fmt.Errorf("failed to record outcomes: %w", recordErr)
	}
	if headlessArchive {
		return archiveState(cfg, state, startedAt)
	}
	return nil
}

func loadTallyOutcomes(stdin io.Reader, path string, args []string) ([]innings.Outcome, error) {
	switch {
	case path != "" && len(args) > 0:
		return nil, fmt.Errorf("pass outcomes as arguments or --file, not both")
	case path == "-":
		outcomes, err := script.ReadOutcomes(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read outcomes: %w", err)
		}
		return outcomes, nil
	case path != "":
		return script.LoadOutcomes(path)
	case len(args) == 0:
		return nil, fmt.Errorf("no outcomes given")
	}
	outcomes, err := innings.ParseOutcomes(args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse outcomes: %w", err)
	}
	return outcomes, nil
}

func archiveState(cfg model.Config, state innings.State, startedAt time.Time) error {
	if state.Deliveries() == 0 {
		logErrln("No deliveries recorded; nothing archived")
		return nil
	}
	st, err := store.Open(cfg.ArchivePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	rec := stats.BuildRecord(state, cfg.Team, startedAt, time.Now())
	id, err := st.InsertInnings(context.Background(), rec)
	if err != nil {
		return fmt.Errorf("failed to archive innings: %w", err)
	}
	logErrf("Archived innings %d\n", id)
	return nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a random innings and print the scorecard",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	addScoringFlags(cmd)
	cmd.Flags().BoolVar(&headlessArchive, "archive", false, "archive the resulting scorecard")
	cmd.Flags().IntVar(&simulateOvers, "overs", defaultOvers, "overs to play")
	cmd.Flags().Int64Var(&simulateSeed, "seed", 0, "random seed (0: time based)")
	cmd.Flags().BoolVar(&simulateUniform, "uniform", false, "draw every outcome with equal probability")
	cmd.Flags().BoolVar(&simulateColor, "color", false, "force coloured chart output")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if simulateOvers <= 0 {
		return fmt.Errorf("--overs must be > 0")
	}

	gen := generator.New()
	if simulateSeed != 0 {
		gen = generator.NewWithSeed(simulateSeed)
	}
	var weights []generator.Weight
	if !simulateUniform {
		weights = generator.DefaultWeights()
	}

	startedAt := time.Now()
	state := gen.Play(rulesFor(cfg), simulateOvers, weights)
	out := cmd.OutOrStdout()
	if err := stats.RenderScorecard(out, state, cfg.Team, cfg.HistoryOrder); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	overs := make([][]string, 0, len(state.Overs()))
	for _, over := range state.Overs() {
		overs = append(overs, over.Strings())
	}
	useColor := stats.ShouldUseColor(out, simulateColor)
	if err := stats.RenderManhattan(out, stats.BarsFromOvers(overs), 0, defaultChartHeight, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if headlessArchive {
		return archiveState(cfg, state, startedAt)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived innings",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	addHistoryFlags(cmd)
	return cmd
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a summary of archived innings",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
	addHistoryFlags(cmd)
	return cmd
}

func addHistoryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&historyTeam, "team", "", "team filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N innings")
	cmd.Flags().StringVar(&scoreDBPath, "db", "", "archive database path")
}

func historyConfig() (model.HistoryConfig, error) {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	return model.HistoryConfig{
		Team:  strings.TrimSpace(historyTeam),
		Since: sinceTime,
		Last:  historyLast,
	}, nil
}

func openArchive(cmd *cobra.Command) (*store.Store, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &scoreDBPath, fileCfg.Archive.Path)
	st, err := store.Open(resolveDBPath(scoreDBPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig()
	if err != nil {
		return err
	}
	st, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	browser := historyui.NewModel(st, cfg)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig()
	if err != nil {
		return err
	}
	st, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return err
	}
	return renderSummaryReport(cmd.OutOrStdout(), report)
}

func renderSummaryReport(w io.Writer, report stats.Report) error {
	if err := stats.RenderSummary(w, report.Innings); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Innings) == 0 {
		return nil
	}
	if err := stats.RenderInningsTable(w, report.Innings); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderOutcomeTable(w, report.Outcomes); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if top := stats.TopOutcomes(report.Outcomes, defaultTopOutcomes); len(top) > 0 {
		if _, err := fmt.Fprintf(w, "Most frequent: %s\n", strings.Join(top, ", ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Lookup(name) == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Lookup(name) == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Lookup(name) == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# crease configuration
# Uncomment a value to enable it. CLI flags override config values.

[innings]
# balls-per-over = %d      # Legal balls per over
# max-wickets = 0          # Wickets that end the innings (0: uncapped)

[display]
# history-order = %q  # Previous overs order (newest-first|oldest-first)
# strict = false           # Explain rejected inputs in the status line

[archive]
# enabled = true           # Archive finished innings
# path = %q
`,
		innings.DefaultBallsPerOver,
		model.OrderNewestFirst,
		config.DefaultDBPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.BallsPerOver <= 0 || cfg.BallsPerOver > maxBallsPerOver {
		return fmt.Errorf("--balls-per-over must be between 1 and %d", maxBallsPerOver)
	}
	if cfg.MaxWickets < 0 {
		return fmt.Errorf("--max-wickets must be >= 0")
	}
	switch cfg.HistoryOrder {
	case model.OrderNewestFirst, model.OrderOldestFirst:
	default:
		return fmt.Errorf("--history-order must be %s or %s", model.OrderNewestFirst, model.OrderOldestFirst)
	}
	if cfg.Archive && cfg.ArchivePath == "" {
		return fmt.Errorf("archive path must not be empty")
	}
	return nil
}

func rulesFor(cfg model.Config) innings.Rules {
	return innings.Rules{BallsPerOver: cfg.BallsPerOver, MaxWickets: cfg.MaxWickets}
}

func resolveDBPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return config.DefaultDBPath()
	}
	return path
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
