package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wee/internal/catalog"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// PickerModel is the Bubble Tea model for choosing a game from the catalog.
type PickerModel struct {
	entries  []catalog.Entry
	cursor   int
	keys     PickerKeyMap
	help     help.Model
	width    int
	height   int
	message  string
	quitting bool
	selected *catalog.Entry
}

// NewPickerModel creates a picker over entries.
func NewPickerModel(entries []catalog.Entry, width, height int) PickerModel {
	return PickerModel{
		entries: entries,
		keys:    DefaultPickerKeyMap(),
		help:    help.New(),
		width:   width,
		height:  height,
	}
}

// WithMessage returns a copy of the picker showing msg under the title.
func (m PickerModel) WithMessage(msg string) PickerModel {
	m.message = msg
	return m
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if len(m.entries) > 0 {
				selected := m.entries[m.cursor]
				m.selected = &selected
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  W E E  "), m.width))
	b.WriteString("\n\n")

	subtitle := "Select a game to watch"
	if m.message != "" {
		subtitle = m.message
	}
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(centerText(dimStyle.Render("No games found."), m.width))
		b.WriteString("\n")
	}

	// Keep the cursor on screen when the list is taller than the terminal.
	visible := max(m.height-9, 1)
	first := 0
	if m.cursor >= visible {
		first = m.cursor - visible + 1
	}
	for i := first; i < len(m.entries) && i < first+visible; i++ {
		e := m.entries[i]
		line := fmt.Sprintf("  %-24s %-9s %3d objects", e.ID, e.Type, e.Objects)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line[2:])
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen entry, or nil if none has been chosen yet.
func (m PickerModel) Selected() *catalog.Entry {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}
