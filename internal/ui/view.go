package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fnug/fnug/internal/tree"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "starting…"
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	treeWidth := m.width / 3
	if treeWidth < 20 {
		treeWidth = 20
	}
	paneWidth := m.width - treeWidth - 1
	if paneWidth < 20 {
		paneWidth = 20
	}

	treePane := m.renderTreePane(treeWidth, bodyHeight)
	cmdPane := m.renderCommandPane(paneWidth, bodyHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top, treePane, cmdPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("fnug")
	summary := statusSummary(m.app.State().GroupSum(m.app.Root().Group.ID))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(summary) - 2
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + summary
}

func (m *Model) renderFooter() string {
	if m.searching {
		return "/ " + m.search.View()
	}
	if m.showHelp {
		return m.help.View(m.keys)
	}
	return helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) renderTreePane(width, height int) string {
	var b strings.Builder
	for i, r := range m.rows {
		line := m.renderTreeRow(r, width-4)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	style := borderStyle
	if !m.paneFocused {
		style = focusedBorder
	}
	return style.Width(width).Height(height).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderTreeRow(r row, width int) string {
	indent := strings.Repeat("  ", r.depth)
	if r.isGroup {
		sum := m.app.State().GroupSum(r.groupID)
		label := groupStyle.Render(r.name)
		counts := dimStyle.Render(countsSuffix(sum))
		return truncate(indent+"▾ "+label+" "+counts, width)
	}

	st := m.app.State()
	glyph := statusGlyph(st.Status(r.commandID), st.Selected(r.commandID))
	return truncate(indent+glyph+" "+r.name, width)
}

func countsSuffix(s tree.GroupSum) string {
	return "(" + strconv.Itoa(s.Success) + "/" + strconv.Itoa(s.Total) + ")"
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width {
		r = r[:width]
	}
	return string(r)
}

func (m *Model) renderCommandPane(width, height int) string {
	r := m.currentRow()
	style := borderStyle
	if m.paneFocused {
		style = focusedBorder
	}

	if r == nil || r.isGroup {
		return style.Width(width).Height(height).Render(dimStyle.Render("select a command"))
	}

	e := m.app.Emulator(r.commandID)
	if e == nil {
		return style.Width(width).Height(height).Render(dimStyle.Render(r.name + ": never run"))
	}

	var b strings.Builder
	for _, line := range e.Render() {
		b.WriteString(renderLine(line))
		b.WriteString("\n")
	}
	return style.Width(width).Height(height).Render(paneBG.Render(strings.TrimRight(b.String(), "\n")))
}
