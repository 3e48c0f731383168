package tui

import (
	"fmt"

	"communestats/internal/population"

	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	MenuScreen Screen = iota
	DepartmentsScreen
	CommunesScreen
	CommuneLookupScreen
	DepartmentStatsScreen
	ExportScreen
	BackupScreen
)

// subModel is implemented by every screen below the menu.
type subModel interface {
	tea.Model
	SetSize(width, height int)
}

type Model struct {
	currentScreen Screen
	screens       map[Screen]subModel
	err           error
	quitting      bool
	width         int
	height        int
}

// Settings carries the defaults shown in the MongoDB forms.
type Settings struct {
	DBURI      string
	DBName     string
	Collection string
	OutputDir  string
	CensusYear string
}

func NewModel(d *population.Dataset, settings Settings) Model {
	index := d.DepartmentIndex()
	return Model{
		currentScreen: MenuScreen,
		screens: map[Screen]subModel{
			MenuScreen:            NewMenuModel(d),
			DepartmentsScreen:     NewListModel("Départements", d.Departments()),
			CommunesScreen:        NewListModel("Communes", d.Communes()),
			CommuneLookupScreen:   NewLookupModel(communeLookup(d)),
			DepartmentStatsScreen: NewLookupModel(departmentLookup(d.Departments(), index)),
			ExportScreen:          NewExportModel(d, settings),
			BackupScreen:          NewBackupModel(settings),
		},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, s := range m.screens {
			s.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "q":
			if m.currentScreen == MenuScreen {
				m.quitting = true
				return m, tea.Quit
			}
		case "esc":
			if m.currentScreen != MenuScreen {
				m.currentScreen = MenuScreen
				m.err = nil
				return m, nil
			}
		}

	case ScreenChangeMsg:
		m.currentScreen = msg.Screen
		m.err = nil
		return m, m.screens[msg.Screen].Init()

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	// background work reports to its own screen even after the user left it
	case ExportProgressMsg, ExportCompleteMsg:
		return m.forward(ExportScreen, msg)
	case BackupCompleteMsg:
		return m.forward(BackupScreen, msg)
	}

	return m.forward(m.currentScreen, msg)
}

func (m Model) forward(screen Screen, msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.screens[screen].Update(msg)
	m.screens[screen] = next.(subModel)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return "Au revoir!\n"
	}

	content := m.screens[m.currentScreen].View()

	if m.err != nil {
		content += "\n" + errorStyle.Margin(1, 0).Render(fmt.Sprintf("Error: %v", m.err))
	}

	return content
}

type ScreenChangeMsg struct {
	Screen Screen
}

type ErrorMsg struct {
	Err error
}

func ChangeScreen(screen Screen) tea.Cmd {
	return func() tea.Msg {
		return ScreenChangeMsg{Screen: screen}
	}
}

func ShowError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}
