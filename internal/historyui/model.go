// Package historyui provides the Bubble Tea archive browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/crease/internal/innings"
	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/stats"
	"github.com/verte-zerg/crease/internal/store"
)

const (
	tabInnings = iota
	tabDetail
	tabSummary
)

const chartHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea archive browser.
type Model struct {
	store *store.Store
	cfg   model.HistoryConfig

	report   stats.Report
	selected int64
	errMsg   string

	tabs      []string
	activeTab int
	list      table.Model
	detail    viewport.Model
	summary   viewport.Model

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	width  int
	height int
}

// NewModel constructs an archive browser model.
func NewModel(st *store.Store, cfg model.HistoryConfig) *Model {
	m := &Model{
		store:   st,
		cfg:     cfg,
		tabs:    []string{"Innings", "Detail", "Summary"},
		detail:  viewport.New(0, 0),
		summary: viewport.New(0, 0),
		filterInputs: []textinput.Model{
			newFilterInput("Team: "),
			newFilterInput("Last: "),
		},
	}
	m.list = table.New(
		table.WithColumns(inningsColumns()),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.list.SetStyles(tableStyles())
	m.refreshReport()
	return m
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
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabInnings {
				m.selectCurrent()
				m.activeTab = tabDetail
			}
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabInnings:
			m.list, cmd = m.list.Update(msg)
		case tabDetail:
			m.detail, cmd = m.detail.Update(msg)
		case tabSummary:
			m.summary, cmd = m.summary.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderTabs() + "\n" + m.renderFilterSummary()
	footer := m.renderFooter()
	var body string
	switch {
	case m.filterMode:
		body = m.renderFilterForm()
	case m.activeTab == tabInnings && len(m.report.Innings) == 0:
		body = "No innings found."
	case m.activeTab == tabInnings:
		body = m.list.View()
	case m.activeTab == tabDetail:
		body = m.detail.View()
	default:
		body = m.summary.View()
	}
	return strings.Join([]string{header, body, footer}, "\n")
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func inningsColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Ended", Width: 16},
		{Title: "Team", Width: 14},
		{Title: "Score", Width: 8},
		{Title: "Overs", Width: 6},
		{Title: "Extras", Width: 6},
		{Title: "RR", Width: 6},
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#0B1220")).
		Background(lipgloss.Color("#C89A3A")).
		Bold(false)
	return s
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X")) + 1
	footerHeight := lipgloss.Height(m.renderFooter())
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight := m.layoutHeights()
	m.list.SetWidth(m.width)
	m.list.SetHeight(bodyHeight)
	m.detail.Width, m.detail.Height = m.width, bodyHeight
	m.summary.Width, m.summary.Height = m.width, bodyHeight
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
	m.renderContents()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFilterSummary() string {
	team := m.cfg.Team
	if team == "" {
		team = "any"
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return headerStyle.Render(fmt.Sprintf("Filter: team=%s  last=%s  innings=%d", team, last, len(m.report.Innings)))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Select: enter  Scroll: up/down  Filter: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	rows := make([]table.Row, 0, len(m.report.Innings))
	for i := len(m.report.Innings) - 1; i >= 0; i-- {
		rows = append(rows, table.Row(stats.InningsRow(m.report.Innings[i])))
	}
	m.list.SetRows(rows)
	m.list.GotoTop()
	m.selected = 0
	if len(m.report.Innings) > 0 {
		m.selected = m.report.Innings[len(m.report.Innings)-1].InningsID
	}
	m.renderContents()
}

func (m *Model) selectCurrent() {
	row := m.list.SelectedRow()
	if len(row) == 0 {
		return
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return
	}
	m.selected = id
	m.renderContents()
}

func (m *Model) renderContents() {
	m.detail.SetContent(m.renderDetail())
	m.detail.GotoTop()
	m.summary.SetContent(m.renderSummary())
}

func (m *Model) findSelected() (model.InningsSummary, bool) {
	for _, s := range m.report.Innings {
		if s.InningsID == m.selected {
			return s, true
		}
	}
	return model.InningsSummary{}, false
}

func (m *Model) renderDetail() string {
	sum, ok := m.findSelected()
	if !ok {
		return "No innings selected."
	}
	overs, err := m.store.ListOvers(context.Background(), sum.InningsID)
	if err != nil {
		return fmt.Sprintf("Failed to load overs: %v", err)
	}
	team := sum.Team
	if team == "" {
		team = "Innings"
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s  %d - %d  (%s overs, extras %d, run rate %.2f)\n\n",
		team, sum.TotalRuns, sum.Wickets,
		innings.FormatOvers(sum.LegalBalls, sum.BallsPerOver), sum.Extras,
		stats.RunRate(sum.TotalRuns, sum.LegalBalls, sum.BallsPerOver))
	runs := stats.RunsPerOver(overs)
	for i, over := range overs {
		fmt.Fprintf(&buf, "%s  %-30s %3d\n", stats.OverLabel(i), strings.Join(over, " "), runs[i])
	}
	fmt.Fprintf(&buf, "\nWorm: %s\n\n", stats.Sparkline(stats.Worm(runs)))
	if err := stats.RenderManhattan(&buf, stats.BarsFromOvers(overs), m.width, chartHeight, false); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return buf.String()
}

func (m *Model) renderSummary() string {
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, m.report.Innings); err != nil {
		return fmt.Sprintf("Failed to render summary: %v", err)
	}
	if err := stats.RenderOutcomeTable(&buf, m.report.Outcomes); err != nil {
		return fmt.Sprintf("Failed to render outcomes: %v", err)
	}
	return buf.String()
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.filterInputs[0].SetValue(m.cfg.Team)
	last := ""
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	m.filterInputs[1].SetValue(last)
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case "tab", "down":
		return m, m.setFilterIndex((m.filterIndex + 1) % len(m.filterInputs))
	case "shift+tab", "up":
		return m, m.setFilterIndex((m.filterIndex - 1 + len(m.filterInputs)) % len(m.filterInputs))
	case "enter":
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == idx {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	cfg := m.cfg
	cfg.Team = strings.TrimSpace(m.filterInputs[0].Value())
	cfg.Last = 0
	if raw := strings.TrimSpace(m.filterInputs[1].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("last must be a non-negative integer")
		}
		cfg.Last = n
	}
	m.cfg = cfg
	m.refreshReport()
	return nil
}
