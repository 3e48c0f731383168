package tui

import (
	"fmt"
	"strings"

	"communestats/internal/population"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuItem struct {
	label  string
	screen Screen
	quit   bool
}

type MenuModel struct {
	items   []menuItem
	cursor  int
	summary string
	width   int
	height  int
}

func NewMenuModel(d *population.Dataset) *MenuModel {
	return &MenuModel{
		items: []menuItem{
			{label: "Départements", screen: DepartmentsScreen},
			{label: "Communes", screen: CommunesScreen},
			{label: "Population d'une commune", screen: CommuneLookupScreen},
			{label: "Statistiques d'un département", screen: DepartmentStatsScreen},
			{label: "Export MongoDB", screen: ExportScreen},
			{label: "Backup MongoDB", screen: BackupScreen},
			{label: "Quitter", quit: true},
		},
		summary: fmt.Sprintf("%d records • %d départements • %d communes • census %s • lookup %s",
			d.Len(), len(d.Departments()), len(d.Communes()), strings.Join(d.CensusYears(), ", "), d.Policy()),
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", " ":
			item := m.items[m.cursor]
			if item.quit {
				return m, tea.Quit
			}
			return m, ChangeScreen(item.screen)
		}
	}
	return m, nil
}

func (m *MenuModel) View() string {
	var b strings.Builder
	for i, item := range m.items {
		if i == m.cursor {
			fmt.Fprintf(&b, "> %s\n", selectedMenuItemStyle.Render(item.label))
		} else {
			fmt.Fprintf(&b, "  %s\n", menuItemStyle.Render(item.label))
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(m.summary), "", b.String())
	return frame(m.width, m.height, "communestats", body, "↑/↓ (j/k): navigate • Enter: select • q: quit")
}
