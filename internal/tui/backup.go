package tui

import (
	"fmt"
	"strings"

	"communestats/internal/backup"
	"communestats/internal/database"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type BackupState int

const (
	BackupInputState BackupState = iota
	BackupRunningState
	BackupResultState
)

type BackupResult struct {
	Files []string
	Error error
}

type BackupCompleteMsg struct {
	Result BackupResult
}

// BackupModel dumps one collection, or all of them when the collection field
// is empty.
type BackupModel struct {
	state   BackupState
	inputs  []textinput.Model
	focused int
	formats []database.Format
	format  int
	result  BackupResult
	width   int
	height  int
}

const (
	backupURIInput = iota
	backupDBInput
	backupCollectionInput
	backupOutputInput
)

var backupLabels = []string{"Database URI:", "Database Name:", "Collection (empty for all):", "Output directory:"}

func NewBackupModel(s Settings) *BackupModel {
	values := []string{s.DBURI, s.DBName, "", s.OutputDir}
	inputs := make([]textinput.Model, len(values))
	for i, v := range values {
		inputs[i] = textinput.New()
		inputs[i].SetValue(v)
	}
	inputs[0].Focus()

	return &BackupModel{
		inputs:  inputs,
		formats: []database.Format{database.FormatJSON, database.FormatBSON},
	}
}

func (m *BackupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *BackupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case BackupInputState:
			return m.updateInputState(msg)
		case BackupResultState:
			if msg.String() == "enter" || msg.String() == " " {
				m.state = BackupInputState
				m.result = BackupResult{}
			}
		}
		return m, nil

	case BackupCompleteMsg:
		m.result = msg.Result
		m.state = BackupResultState
		return m, nil
	}
	return m, nil
}

func (m *BackupModel) updateInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus((m.focused + 1) % len(m.inputs))
		return m, nil
	case "shift+tab", "up":
		m.focus((m.focused - 1 + len(m.inputs)) % len(m.inputs))
		return m, nil
	case "ctrl+f":
		m.format = (m.format + 1) % len(m.formats)
		return m, nil
	case "enter":
		if m.value(backupURIInput) != "" && m.value(backupDBInput) != "" && m.value(backupOutputInput) != "" {
			m.state = BackupRunningState
			return m, m.performBackup()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *BackupModel) focus(i int) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[m.focused].Focus()
}

func (m *BackupModel) value(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

func (m *BackupModel) performBackup() tea.Cmd {
	uri, dbName := m.value(backupURIInput), m.value(backupDBInput)
	collection, outputDir := m.value(backupCollectionInput), m.value(backupOutputInput)
	format := m.formats[m.format]

	return func() tea.Msg {
		var result BackupResult

		db, err := database.NewMongoDB(uri, dbName)
		if err != nil {
			result.Error = fmt.Errorf("failed to connect to MongoDB: %w", err)
			return BackupCompleteMsg{Result: result}
		}
		defer db.Close()

		service := backup.NewService(db)
		if collection == "" {
			result.Files, result.Error = service.BackupDatabase(outputDir, format)
			return BackupCompleteMsg{Result: result}
		}

		file, _, err := service.BackupCollection(collection, outputDir, format)
		if err != nil {
			result.Error = err
		} else {
			result.Files = []string{file}
		}
		return BackupCompleteMsg{Result: result}
	}
}

func (m *BackupModel) View() string {
	switch m.state {
	case BackupRunningState:
		return frame(m.width, m.height, "Backup en cours...", progressStyle.Render("Dumping collections..."), "Please wait...")
	case BackupResultState:
		return m.renderResult()
	}

	var b strings.Builder
	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(backupLabels[i]) + "\n" + input.View() + "\n\n")
	}
	b.WriteString(labelStyle.Render("Format: ") + strings.ToUpper(string(m.formats[m.format])))
	return frame(m.width, m.height, "Backup MongoDB", formStyle.Render(b.String()),
		"Tab/Shift+Tab: navigate • Ctrl+F: toggle format • Enter: backup • Esc: menu")
}

func (m *BackupModel) renderResult() string {
	var status string
	if m.result.Error != nil {
		status = errorStyle.Render(fmt.Sprintf("Backup failed: %v", m.result.Error))
	} else {
		status = successStyle.Render(fmt.Sprintf("Backup completed: %d file(s)", len(m.result.Files)))
	}
	lines := []string{status, ""}
	for _, f := range m.result.Files {
		lines = append(lines, "  - "+f)
	}
	return frame(m.width, m.height, "Backup terminé", lipgloss.JoinVertical(lipgloss.Left, lines...),
		"Enter: new backup • Esc: menu")
}
