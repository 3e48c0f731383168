package tui

import (
	"fmt"
	"strings"

	"communestats/internal/database"
	"communestats/internal/export"
	"communestats/internal/population"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ExportState int

const (
	ExportInputState ExportState = iota
	ExportProgressState
	ExportResultState
)

type ExportResult struct {
	export.Result
	Error error
}

type ExportProgressMsg struct {
	Progress float64
}

type ExportCompleteMsg struct {
	Result ExportResult
}

type ExportModel struct {
	dataset     *population.Dataset
	censusYear  string
	state       ExportState
	inputs      []textinput.Model
	focused     int
	progress    progress.Model
	progressVal float64
	events      chan tea.Msg
	result      ExportResult
	width       int
	height      int
}

const (
	exportURIInput = iota
	exportDBInput
	exportDepartmentsInput
	exportCommunesInput
)

var exportLabels = []string{"Database URI:", "Database Name:", "Department collection:", "Commune collection (empty to skip):"}

func NewExportModel(d *population.Dataset, s Settings) *ExportModel {
	values := []string{s.DBURI, s.DBName, s.Collection, "communes"}
	inputs := make([]textinput.Model, len(values))
	for i, v := range values {
		inputs[i] = textinput.New()
		inputs[i].SetValue(v)
	}
	inputs[0].Focus()

	return &ExportModel{
		dataset:    d,
		censusYear: s.CensusYear,
		inputs:     inputs,
		progress: progress.New(
			progress.WithSolidFill("#002395"),
			progress.WithoutPercentage(),
		),
	}
}

func (m *ExportModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ExportModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case ExportInputState:
			return m.updateInputState(msg)
		case ExportResultState:
			if msg.String() == "enter" || msg.String() == " " {
				m.state = ExportInputState
				m.result = ExportResult{}
				m.progressVal = 0
			}
		}
		return m, nil

	case ExportProgressMsg:
		m.progressVal = msg.Progress
		return m, waitForEvent(m.events)

	case ExportCompleteMsg:
		m.result = msg.Result
		m.state = ExportResultState
		m.events = nil
		return m, nil
	}
	return m, nil
}

func (m *ExportModel) updateInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus((m.focused + 1) % len(m.inputs))
		return m, nil
	case "shift+tab", "up":
		m.focus((m.focused - 1 + len(m.inputs)) % len(m.inputs))
		return m, nil
	case "enter":
		if m.isFormValid() {
			return m.startExport()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *ExportModel) focus(i int) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[m.focused].Focus()
}

func (m *ExportModel) value(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

func (m *ExportModel) isFormValid() bool {
	return m.value(exportURIInput) != "" && m.value(exportDBInput) != "" && m.value(exportDepartmentsInput) != ""
}

func (m *ExportModel) startExport() (tea.Model, tea.Cmd) {
	m.state = ExportProgressState
	m.progressVal = 0
	m.events = make(chan tea.Msg, 16)

	uri, dbName := m.value(exportURIInput), m.value(exportDBInput)
	opts := export.Options{
		DepartmentCollection: m.value(exportDepartmentsInput),
		CommuneCollection:    m.value(exportCommunesInput),
		CensusYear:           m.censusYear,
	}
	go runExport(m.events, m.dataset, uri, dbName, opts)
	return m, waitForEvent(m.events)
}

// runExport sends ExportProgressMsg values, dropping them when the UI lags,
// and always ends with one ExportCompleteMsg.
func runExport(events chan<- tea.Msg, d *population.Dataset, uri, dbName string, opts export.Options) {
	var result ExportResult
	defer func() { events <- ExportCompleteMsg{Result: result} }()

	db, err := database.NewMongoDB(uri, dbName)
	if err != nil {
		result.Error = fmt.Errorf("failed to connect to MongoDB: %w", err)
		return
	}
	defer db.Close()

	opts.Progress = func(done, total int) {
		select {
		case events <- ExportProgressMsg{Progress: float64(done) / float64(total)}:
		default:
		}
	}
	result.Result, result.Error = export.Run(db, d, opts)
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return <-events
	}
}

func (m *ExportModel) View() string {
	switch m.state {
	case ExportProgressState:
		return m.renderProgress()
	case ExportResultState:
		return m.renderResult()
	}
	return m.renderInputForm()
}

func (m *ExportModel) renderInputForm() string {
	var b strings.Builder
	for i, input := range m.inputs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(labelStyle.Render(exportLabels[i]) + "\n" + input.View())
	}
	return frame(m.width, m.height, "Export MongoDB", formStyle.Render(b.String()),
		"Tab/Shift+Tab: navigate • Enter: export • Esc: menu")
}

func (m *ExportModel) renderProgress() string {
	barWidth := m.width - 10
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 80 {
		barWidth = 80
	}
	m.progress.Width = barWidth

	body := progressStyle.Render(m.progress.ViewAs(m.progressVal) + "\n" +
		fmt.Sprintf("Progress: %.1f%%", m.progressVal*100))
	return frame(m.width, m.height, "Export en cours...", body, "Please wait while documents are written...")
}

func (m *ExportModel) renderResult() string {
	var status string
	if m.result.Error != nil {
		status = errorStyle.Render(fmt.Sprintf("Export failed: %v", m.result.Error))
	} else {
		status = successStyle.Render("Export completed successfully!")
	}

	stats := fmt.Sprintf(
		"Total documents: %d\nNew: %d\nUpdated: %d\nFailed: %d",
		m.result.TotalDocuments,
		m.result.NewDocuments,
		m.result.UpdatedDocuments,
		m.result.FailedDocuments,
	)

	return frame(m.width, m.height, "Export terminé", lipgloss.JoinVertical(lipgloss.Left, status, "", stats),
		"Enter: export again • Esc: menu")
}
