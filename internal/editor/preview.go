package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	quoteStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	boxStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Preview styles the checklist Markdown for the terminal.
func Preview(markdown string) string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "# "):
			lines[i] = headingStyle.Render(strings.TrimPrefix(line, "# "))
		case line == ">" || strings.HasPrefix(line, "> "):
			lines[i] = quoteStyle.Render("│ " + strings.TrimPrefix(strings.TrimPrefix(line, ">"), " "))
		case strings.HasPrefix(line, "- [ ] "), strings.HasPrefix(line, "* [ ] "):
			lines[i] = boxStyle.Render("☐") + " " + line[len("- [ ] "):]
		case strings.HasPrefix(line, "- [x] "), strings.HasPrefix(line, "* [x] "):
			lines[i] = boxStyle.Render("☑") + " " + line[len("- [x] "):]
		}
	}
	return strings.Join(lines, "\n")
}
