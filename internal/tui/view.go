package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62"))
	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("243"))
	cursorStyle     = lipgloss.NewStyle().Bold(true)
	referencedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	faintStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func (m appModel) View() string {
	var b strings.Builder

	b.WriteString(m.tabsView())
	b.WriteString("\n\n")

	if m.mode == modeSearch || m.search[m.tab].Value() != "" {
		b.WriteString(m.search[m.tab].View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.rowsView())

	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(m.footerText()))

	return b.String()
}

func (m appModel) tabsView() string {
	tabs := make([]string, 0, tabCount)
	for t := tab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m appModel) rowsView() string {
	if m.loading {
		return faintStyle.Render("loading...") + "\n"
	}

	rows := m.rows()
	if len(rows) == 0 {
		return faintStyle.Render("nothing here") + "\n"
	}

	var b strings.Builder
	for i, r := range rows {
		mark := "( )"
		if r.selected {
			mark = "(*)"
		}

		line := mark + " " + r.label
		if r.referenced {
			line = referencedStyle.Render(line)
		}
		if i == m.cursor[m.tab] {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m appModel) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.failed {
		return errorStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m appModel) footerText() string {
	switch m.mode {
	case modeSearch:
		return "enter/esc: done"
	case modeAdd:
		return "enter: add  esc: cancel"
	}

	if m.tab == tabLinks {
		return "tab: switch  space: select  a: link selected  /: search  r: reload  q: quit"
	}
	return "tab: switch  space: select  a: add  d: remove  /: search  r: reload  q: quit"
}
