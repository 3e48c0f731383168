package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#002395", Dark: "#6f8fff"}

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}).
			Bold(true).
			Margin(1, 0, 1, 0)

	menuItemStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.AdaptiveColor{Light: "#262626", Dark: "#d9d9d9"})

	selectedMenuItemStyle = menuItemStyle.
				Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}).
				Background(accent).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#626262", Dark: "#a8a8a8"}).
			Margin(1, 0, 0, 0)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}).
			Bold(true)

	progressStyle = lipgloss.NewStyle().
			Margin(1, 0)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#b58900", Dark: "#f1fa8c"}).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#ED2939", Dark: "#ff5555"}).
			Bold(true)
)

// adaptiveWidth keeps a two-column margin on each side.
func adaptiveWidth(width int) int {
	if width <= 4 {
		return 0
	}
	return width - 4
}

// frame stacks title, body and help and centres them horizontally when the
// terminal size is known.
func frame(width, height int, title, body, help string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		body,
		helpStyle.Width(adaptiveWidth(width)).Render(help),
	)
	if width > 0 && height > 0 {
		content = lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
	}
	return content
}

// visibleRows is how many list rows fit once title and help are drawn.
func visibleRows(height int) int {
	if height <= 0 {
		return 20
	}
	if rows := height - 9; rows > 3 {
		return rows
	}
	return 3
}
