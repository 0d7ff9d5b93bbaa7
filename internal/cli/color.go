package cli

import "github.com/charmbracelet/lipgloss"

var (
	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C00"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	silentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

func Primary(text string) string { return primaryStyle.Render(text) }
func Success(text string) string { return successStyle.Render(text) }
func Warning(text string) string { return warningStyle.Render(text) }
func Silent(text string) string  { return silentStyle.Render(text) }
func Header(text string) string  { return headerStyle.Render(text) }

// bar renders a fixed-width progress bar for a 0..100 percentage.
func bar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	out := make([]rune, width)
	for i := range out {
		if i < filled {
			out[i] = '█'
		} else {
			out[i] = '░'
		}
	}
	return string(out)
}
