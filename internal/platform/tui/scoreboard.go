package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/coindash/internal/storage"
)

// Scoreboard layout constants
const (
	tableMinWidth = 50  // Below this the date column is dropped
	maxScores     = 100 // Max scores to load
)

// scoreboardTabs are the preset filters; "" shows every preset.
var scoreboardTabs = []string{"", "easy", "normal", "hard", "fixed"}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextTab, k.PrevTab, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next preset"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev preset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the high score screen.
type ScoreboardModel struct {
	store    *storage.Store
	tab      int
	scores   []storage.ScoreEntry
	loadErr  error
	wide     bool // Table shows the date column
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewScoreboardModel creates a scoreboard starting on preset ("" for all).
func NewScoreboardModel(store *storage.Store, preset string, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	for i, p := range scoreboardTabs {
		if p == preset {
			m.tab = i
		}
	}

	m.table = m.createTable()
	m.loadScores()
	return m
}

// createTable creates a new table sized for the current window.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Preset", Width: 8},
		{Title: "Date", Width: 14},
	}
	m.wide = m.width-4 >= tableMinWidth
	if !m.wide {
		columns = columns[:3]
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for title, tabs and help
	)
	t.SetStyles(tableStyles())
	return t
}

// tableStyles returns the shared table look of the stats screens.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}

// loadScores loads scores for the selected tab.
func (m *ScoreboardModel) loadScores() {
	m.scores, m.loadErr = nil, nil
	if m.store != nil {
		m.scores, m.loadErr = m.store.TopScores(scoreboardTabs[m.tab], maxScores)
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		row := table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			s.Preset,
		}
		if m.wide {
			row = append(row, s.CreatedAt.Local().Format("Jan 02 15:04"))
		}
		rows[i] = row
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % len(scoreboardTabs)
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + len(scoreboardTabs) - 1) % len(scoreboardTabs)
			m.loadScores()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(centerText("COINDASH HIGH SCORES", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(m.renderTableContent()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTabs renders the preset filter tabs.
func (m ScoreboardModel) renderTabs() string {
	tabs := make([]string, len(scoreboardTabs))
	for i, p := range scoreboardTabs {
		name := p
		if name == "" {
			name = "all"
		}
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(" " + name + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load scores:\n" + m.loadErr.Error())
	case len(m.scores) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a run to set a high score!")
	}
	return m.table.View()
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(store *storage.Store, preset string, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(store, preset, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
