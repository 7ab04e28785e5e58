package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wee/internal/storage"
)

const maxHistoryRuns = 100

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextGame, k.PrevGame, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev game"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel browses recorded runs one game at a time.
type HistoryModel struct {
	store     *storage.Store
	summaries []*storage.Summary
	cursor    int
	runs      []storage.RunEntry
	err       error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	quitting  bool
}

// NewHistoryModel creates a history browser, starting at gameID when it
// has runs.
func NewHistoryModel(store *storage.Store, gameID string, width, height int) HistoryModel {
	m := HistoryModel{
		store:  store,
		help:   help.New(),
		keys:   DefaultHistoryKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()

	sums, err := store.AllSummaries()
	if err != nil {
		m.err = err
		return m
	}
	for _, s := range sums {
		m.summaries = append(m.summaries, s)
	}
	sort.Slice(m.summaries, func(i, j int) bool {
		return m.summaries[i].GameID < m.summaries[j].GameID
	})
	for i, s := range m.summaries {
		if s.GameID == gameID {
			m.cursor = i
		}
	}
	m.loadRuns()
	return m
}

func (m *HistoryModel) createTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Run", Width: 6},
			{Title: "Outcome", Width: 10},
			{Title: "Frames", Width: 7},
			{Title: "Rate", Width: 5},
			{Title: "Diff", Width: 4},
			{Title: "Seed", Width: 20},
			{Title: "Date", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

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
	t.SetStyles(s)
	return t
}

func (m *HistoryModel) loadRuns() {
	m.runs = nil
	if len(m.summaries) > 0 {
		runs, err := m.store.RecentRuns(m.summaries[m.cursor].GameID, maxHistoryRuns)
		if err != nil {
			m.err = err
		}
		m.runs = runs
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.ID),
			r.Outcome,
			fmt.Sprintf("%d", r.Frames),
			fmt.Sprintf("%.2f", r.PlaybackRate),
			fmt.Sprintf("%d", r.Difficulty),
			fmt.Sprintf("%d", r.Seed),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextGame):
			if len(m.summaries) > 0 {
				m.cursor = (m.cursor + 1) % len(m.summaries)
				m.loadRuns()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.summaries) > 0 {
				m.cursor = (m.cursor - 1 + len(m.summaries)) % len(m.summaries)
				m.loadRuns()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(m.height-8, 3))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "RUN HISTORY"
	if len(m.summaries) > 0 {
		s := m.summaries[m.cursor]
		title = fmt.Sprintf("RUN HISTORY - %s  (%d runs: %d won, %d lost, %d undecided, %d errors)",
			s.GameID, s.Runs, s.Won, s.Lost, s.Undecided, s.Errors)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("cannot read history: " + m.err.Error()))
	case len(m.runs) == 0:
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("No runs recorded yet.\nRecord one with wee run --record.")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(empty)))
	default:
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(m.table.View())))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// IsQuitting returns true if user wants to quit.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history browser until the user quits.
func RunHistory(store *storage.Store, gameID string, width, height int) error {
	p := tea.NewProgram(NewHistoryModel(store, gameID, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
