package shared

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpBind represents a single keybind entry
type HelpBind struct {
	Key  string
	Desc string
}

// HelpSection represents a group of related keybinds
type HelpSection struct {
	Title string
	Binds []HelpBind
}

// SectionFromBindings builds a help section from enabled key bindings.
func SectionFromBindings(title string, bindings []key.Binding) HelpSection {
	s := HelpSection{Title: title}
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		s.Binds = append(s.Binds, HelpBind{Key: h.Key, Desc: h.Desc})
	}
	return s
}

var (
	helpSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	helpKeyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	helpDescStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	helpBoxStyle     = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("4")).
				Padding(1, 2)
	helpDismissStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderHelpPopup renders a centered help popup with the given sections.
// Sections are laid out side by side.
func RenderHelpPopup(sections []HelpSection, width, height int) string {
	line := func(key, desc string) string {
		return "  " + helpKeyStyle.Width(12).Render(key) + helpDescStyle.Render(desc)
	}

	columns := make([]string, 0, len(sections))
	for _, section := range sections {
		var b strings.Builder
		b.WriteString(helpSectionStyle.Render(section.Title) + "\n")
		for _, bind := range section.Binds {
			b.WriteString(line(bind.Key, bind.Desc) + "\n")
		}
		columns = append(columns, lipgloss.NewStyle().PaddingRight(3).Render(strings.TrimRight(b.String(), "\n")))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	content += "\n\n" + helpDismissStyle.Render("Press any key to close")

	box := helpBoxStyle.Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
