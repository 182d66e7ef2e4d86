// Package tui provides the Bubble Tea scoring interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/crease/internal/innings"
	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/stats"
	"github.com/verte-zerg/crease/internal/store"
)

const (
	chipPadding   = 2
	contentRatio  = 0.75
	minContent    = 40
	headerGap     = 5
	overNumberPad = 2
)

var (
	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0B1220")).
			Padding(1, 3)
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	runChipStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0B1220")).Background(lipgloss.Color("#4ADE80")).Padding(0, 1)
	extraChipStyle  = runChipStyle.Copy().Background(lipgloss.Color("#FACC15"))
	wicketChipStyle = runChipStyle.Copy().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#DC2626"))
	overNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0B1220")).Background(lipgloss.Color("#FED7AA")).Padding(0, 1)
	buttonStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#1E293B")).Padding(0, 1)
	advanceStyle    = buttonStyle.Copy().Background(lipgloss.Color("#1E40AF"))
	disabledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Background(lipgloss.Color("#262626")).Padding(0, 1)
	panelStyle      = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea scoring UI.
type Model struct {
	config model.Config
	store  *store.Store
	keys   keyMap
	help   help.Model
	overs  viewport.Model

	state     innings.State
	startedAt time.Time
	now       func() time.Time

	status     string
	archived   bool
	archiveErr error

	width  int
	height int
}

// NewModel constructs a scoring TUI model. A nil store disables archiving.
func NewModel(cfg model.Config, st *store.Store) *Model {
	m := &Model{
		config: cfg,
		store:  st,
		keys:   defaultKeyMap(),
		help:   help.New(),
		overs:  viewport.New(0, 0),
		now:    time.Now,
	}
	m.state = innings.New(innings.Rules{BallsPerOver: cfg.BallsPerOver, MaxWickets: cfg.MaxWickets})
	m.startedAt = m.now()
	m.refreshOvers()
	return m
}

// State returns the current innings snapshot.
func (m *Model) State() innings.State {
	return m.state
}

// ArchiveErr reports a failure to archive the innings on quit.
func (m *Model) ArchiveErr() error {
	return m.archiveErr
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.finishInnings()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Runs):
			o, err := innings.ParseOutcome(msg.String())
			if err == nil {
				m.record(o)
			}
			return m, nil
		case key.Matches(msg, m.keys.Wide):
			m.record(innings.WideBall())
			return m, nil
		case key.Matches(msg, m.keys.NoBall):
			m.record(innings.NoBall())
			return m, nil
		case key.Matches(msg, m.keys.Wicket):
			m.record(innings.Wicket())
			return m, nil
		case key.Matches(msg, m.keys.Advance):
			m.advance()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.updateLayout()
			return m, nil
		case key.Matches(msg, m.keys.Scroll):
			var cmd tea.Cmd
			m.overs, cmd = m.overs.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) record(o innings.Outcome) {
	next, err := m.state.Record(o)
	if err != nil {
		m.reject(err)
		return
	}
	m.state = next
	m.status = ""
	m.refreshOvers()
}

func (m *Model) advance() {
	next, err := m.state.Advance()
	if err != nil {
		m.reject(err)
		return
	}
	m.state = next
	m.status = ""
	m.refreshOvers()
}

// reject absorbs a refused operation. Strict mode explains it in the status line.
func (m *Model) reject(err error) {
	if !m.config.Strict {
		return
	}
	switch {
	case errors.Is(err, innings.ErrOverComplete):
		m.status = "Over complete: press enter to add the next over"
	case errors.Is(err, innings.ErrOverInProgress):
		m.status = fmt.Sprintf("Over in progress: %d balls remaining", m.state.BallsRemaining())
	case errors.Is(err, innings.ErrAllOut):
		m.status = "All out"
	default:
		m.status = err.Error()
	}
}

func (m *Model) finishInnings() {
	if m.store == nil || m.archived || m.state.Deliveries() == 0 {
		return
	}
	rec := stats.BuildRecord(m.state, m.config.Team, m.startedAt, m.now())
	if _, err := m.store.InsertInnings(context.Background(), rec); err != nil {
		m.archiveErr = fmt.Errorf("failed to archive innings: %w", err)
		return
	}
	m.archived = true
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * contentRatio)
	return min(m.width, max(w, minContent))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	fixed := lipgloss.Height(m.renderTop()) + lipgloss.Height(m.renderFooter()) + 2
	m.overs.Width = max(1, m.contentWidth()-panelStyle.GetHorizontalFrameSize())
	m.overs.Height = max(1, m.height-fixed-panelStyle.GetVerticalFrameSize())
	m.refreshOvers()
}

func (m *Model) refreshOvers() {
	m.overs.SetContent(m.renderPreviousOvers(m.overs.Width))
}

// View implements tea.Model.
func (m *Model) View() string {
	top := m.renderTop()
	footer := m.renderFooter()
	sections := []string{top}
	if len(m.state.CompletedOvers()) > 0 {
		sections = append(sections, panelStyle.Render(
			titleStyle.Render("Previous Overs")+"\n"+m.overs.View()))
	}
	sections = append(sections, footer)
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderTop() string {
	score := scoreStyle.Render(fmt.Sprintf("%d - %d", m.state.TotalRuns(), m.state.Wickets()))

	info := []string{
		titleStyle.Render(fmt.Sprintf("Current Over: %s", m.state.OversDisplay())),
		fmt.Sprintf("Remaining balls this over: %d", m.state.BallsRemaining()),
		mutedStyle.Render(fmt.Sprintf("Extras %d  ·  Run rate %.2f", m.state.Extras(),
			stats.RunRate(m.state.TotalRuns(), m.state.LegalBalls(), m.state.Rules().BallsPerOver))),
	}
	if m.config.Team != "" {
		info = append([]string{titleStyle.Render(m.config.Team)}, info...)
	}
	if m.state.AllOut() {
		info = append(info, statusStyle.Render("All out"))
	}
	chipWidth := m.contentWidth() - lipgloss.Width(score) - headerGap
	if chips := wrapChips(buildChips(m.state.CurrentOver()), chipWidth); chips != "" {
		info = append(info, chips)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, score, strings.Repeat(" ", headerGap), strings.Join(info, "\n"))
	return header + "\n\n" + m.renderButtons()
}

func (m *Model) renderButtons() string {
	recordStyle := buttonStyle
	if !m.state.CanRecord() {
		recordStyle = disabledStyle
	}
	nextStyle := advanceStyle
	if !m.state.CanAdvance() {
		nextStyle = disabledStyle
	}
	buttons := make([]string, 0, len(innings.Outcomes())+1)
	for _, o := range innings.Outcomes() {
		buttons = append(buttons, recordStyle.Render(o.String()))
	}
	buttons = append(buttons, nextStyle.Render("Add Over"))
	return strings.Join(buttons, " ")
}

func (m *Model) renderPreviousOvers(width int) string {
	completed := m.state.CompletedOvers()
	if len(completed) == 0 {
		return ""
	}
	indices, ordered := stats.OrderedOvers(completed, m.config.HistoryOrder)
	labelWidth := lipgloss.Width(overNumberStyle.Render(stats.OverLabel(0)))
	chipWidth := width - labelWidth - overNumberPad
	lines := make([]string, 0, len(ordered))
	for i, over := range ordered {
		label := overNumberStyle.Render(stats.OverLabel(indices[i]))
		chips := wrapChips(buildChips(over), chipWidth)
		runs := mutedStyle.Render(fmt.Sprintf(" (%d)", over.Runs()))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, strings.Repeat(" ", overNumberPad), chips, runs))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	lines := []string{}
	if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}
