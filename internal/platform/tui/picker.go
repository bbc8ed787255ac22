// Package tui provides the interactive screens that run before the
// simulator takes over the terminal.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/akuma-sim/internal/profile"
)

// Picker layout constants
const (
	nameColumnWidth = 18
	minDescWidth    = 20
	maxDescWidth    = 60
	chromeRows      = 8 // title, borders, help and margins
)

// PickerModel is the Bubble Tea model for the profile picker.
type PickerModel struct {
	profiles []profile.Profile
	table    table.Model
	help     help.Model
	keys     PickerKeyMap
	width    int
	height   int
	selected *profile.Profile
	quitting bool
}

// NewPickerModel creates a picker over profiles with the cursor on current.
func NewPickerModel(profiles []profile.Profile, current string, width, height int) PickerModel {
	h := help.New()
	h.ShowAll = false

	m := PickerModel{
		profiles: profiles,
		keys:     DefaultPickerKeyMap(),
		help:     h,
		width:    width,
		height:   height,
	}
	m.table = m.createTable()
	m.updateTableRows()

	for i, p := range profiles {
		if p.Name == current {
			m.table.SetCursor(i)
			break
		}
	}
	return m
}

// createTable creates a new table with appropriate columns.
func (m *PickerModel) createTable() table.Model {
	descWidth := m.width - nameColumnWidth - 8 // Margins and borders
	descWidth = max(minDescWidth, min(descWidth, maxDescWidth))

	columns := []table.Column{
		{Title: "Profile", Width: nameColumnWidth},
		{Title: "Description", Width: descWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-chromeRows, 3)),
	)

	// Table styles
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

// updateTableRows fills the table from the profile list.
func (m *PickerModel) updateTableRows() {
	rows := make([]table.Row, len(m.profiles))
	for i, p := range m.profiles {
		rows[i] = table.Row{p.Name, p.Description}
	}
	m.table.SetRows(rows)
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if len(m.profiles) > 0 {
				selected := m.profiles[m.table.Cursor()]
				m.selected = &selected
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Top):
			m.table.GotoTop()
			return m, nil

		case key.Matches(msg, m.keys.Bottom):
			m.table.GotoBottom()
			return m, nil

		case key.Matches(msg, m.keys.Up):
			m.table.MoveUp(1)
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.table.MoveDown(1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		cursor := m.table.Cursor()
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("AKUMA SIMULATOR - PROFILES", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m PickerModel) renderTableContent() string {
	if len(m.profiles) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No profiles found.\nAdd a .lua file to the profile directory.")
	}
	return m.table.View()
}

// Selected returns the chosen profile, if any.
func (m PickerModel) Selected() (profile.Profile, bool) {
	if m.selected == nil {
		return profile.Profile{}, false
	}
	return *m.selected, true
}

// IsQuitting returns true if the user left without choosing.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunProfilePicker shows profiles and returns the chosen one. ok is false
// when the user quit without choosing.
func RunProfilePicker(profiles []profile.Profile, current string) (chosen profile.Profile, ok bool, err error) {
	model := NewPickerModel(profiles, current, 80, 24)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return profile.Profile{}, false, err
	}

	m, isPicker := finalModel.(PickerModel)
	if !isPicker {
		return profile.Profile{}, false, nil
	}
	chosen, ok = m.Selected()
	return chosen, ok, nil
}
