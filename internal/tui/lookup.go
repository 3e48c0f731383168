package tui

import (
	"fmt"
	"strings"

	"communestats/internal/models"
	"communestats/internal/population"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// lookup resolves a code typed by the user into displayable lines.
type lookup struct {
	title       string
	label       string
	placeholder string
	resolve     func(code string) (string, error)
}

func communeLookup(d *population.Dataset) lookup {
	return lookup{
		title:       "Population d'une commune",
		label:       "Code commune:",
		placeholder: "39124",
		resolve: func(code string) (string, error) {
			c, ok := d.CommunePopulation(code)
			if !ok {
				return "", fmt.Errorf("commune %s not found", code)
			}
			return fmt.Sprintf("%s\n   Population: %d\n   Recensement: %s", c.Name, c.Population, c.CensusYear), nil
		},
	}
}

func departmentLookup(deps []models.Pair, index models.DepartmentIndex) lookup {
	names := make(map[string]string, len(deps))
	for _, p := range deps {
		names[p.Code] = p.Name
	}
	return lookup{
		title:       "Statistiques d'un département",
		label:       "Code département:",
		placeholder: "87",
		resolve: func(code string) (string, error) {
			s, err := population.StatByDepartment(index, code)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s\n   Communes: %d\n   Population totale: %.0f", names[code], s.CommuneCount, s.TotalPopulation), nil
		},
	}
}

type LookupModel struct {
	lookup lookup
	input  textinput.Model
	result string
	err    error
	width  int
	height int
}

func NewLookupModel(l lookup) *LookupModel {
	input := textinput.New()
	input.Placeholder = l.placeholder
	input.CharLimit = 10
	input.Focus()

	return &LookupModel{lookup: l, input: input}
}

func (m *LookupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *LookupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LookupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		code := strings.TrimSpace(m.input.Value())
		if code == "" {
			return m, nil
		}
		m.result, m.err = m.lookup.resolve(code)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *LookupModel) View() string {
	body := labelStyle.Render(m.lookup.label) + "\n" + m.input.View()
	switch {
	case m.err != nil:
		body += "\n\n" + errorStyle.Render(m.err.Error())
	case m.result != "":
		body += "\n\n" + successStyle.Render(m.result)
	}
	return frame(m.width, m.height, m.lookup.title, formStyle.Render(body), "Enter: look up • Esc: menu")
}
