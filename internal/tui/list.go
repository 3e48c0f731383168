package tui

import (
	"fmt"
	"strings"

	"communestats/internal/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ListModel shows a filterable, scrollable list of (code, name) pairs.
type ListModel struct {
	title    string
	pairs    []models.Pair
	filtered []models.Pair
	filter   textinput.Model
	cursor   int
	offset   int
	width    int
	height   int
}

func NewListModel(title string, pairs []models.Pair) *ListModel {
	filter := textinput.New()
	filter.Placeholder = "filtrer par code ou nom"
	filter.Prompt = "/ "
	filter.Focus()

	return &ListModel{
		title:    title,
		pairs:    pairs,
		filtered: pairs,
		filter:   filter,
	}
}

func (m *ListModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		page := visibleRows(m.height)
		switch key.String() {
		case "up":
			m.move(-1)
			return m, nil
		case "down":
			m.move(1)
			return m, nil
		case "pgup":
			m.move(-page)
			return m, nil
		case "pgdown":
			m.move(page)
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

func (m *ListModel) move(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := visibleRows(m.height)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *ListModel) applyFilter() {
	m.filtered = FilterPairs(m.pairs, m.filter.Value())
	m.cursor = 0
	m.offset = 0
}

// Selected returns the pair under the cursor.
func (m *ListModel) Selected() (models.Pair, bool) {
	if m.cursor < len(m.filtered) {
		return m.filtered[m.cursor], true
	}
	return models.Pair{}, false
}

// FilterPairs keeps pairs whose code has the query as prefix or whose name
// contains it, ignoring case.
func FilterPairs(pairs []models.Pair, query string) []models.Pair {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return pairs
	}
	var out []models.Pair
	for _, p := range pairs {
		if strings.HasPrefix(strings.ToLower(p.Code), q) || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

func (m *ListModel) View() string {
	var b strings.Builder
	b.WriteString(m.filter.View() + "\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(warningStyle.Render("Aucun résultat"))
	}
	end := m.offset + visibleRows(m.height)
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		line := fmt.Sprintf("%-6s %s", m.filtered[i].Code, m.filtered[i].Name)
		if i == m.cursor {
			fmt.Fprintf(&b, "> %s\n", selectedMenuItemStyle.Render(line))
		} else {
			fmt.Fprintf(&b, "  %s\n", menuItemStyle.Render(line))
		}
	}

	title := fmt.Sprintf("%s (%d/%d)", m.title, len(m.filtered), len(m.pairs))
	return frame(m.width, m.height, title, b.String(), "Type to filter • ↑/↓ PgUp/PgDn: scroll • Esc: menu")
}
