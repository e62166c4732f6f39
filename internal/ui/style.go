package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/fnug/fnug/internal/tree"
	"github.com/fnug/fnug/internal/vt"
)

var (
	borderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	focusedBorder = borderStyle.BorderForeground(lipgloss.Color("214"))
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	groupStyle    = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	paneBG        = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e1e"))
)

// statusGlyph renders a command's status as a single colored marker: a
// filled circle for a selected-but-pending command, and a distinct glyph
// for each of the running/success/failure states.
func statusGlyph(status tree.Status, selected bool) string {
	switch status {
	case tree.Running:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("◐")
	case tree.Success:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✔")
	case tree.Failure:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("✘")
	default:
		if selected {
			return lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Render("●")
		}
		return dimStyle.Render("○")
	}
}

// colorToLipgloss converts a vt.Color into the lipgloss.Color the UI
// layer needs to render a frame, kept in internal/ui rather than
// internal/vt because the emulator performs no I/O and should not depend
// on a specific rendering library.
func colorToLipgloss(c vt.Color) lipgloss.Color {
	switch c.Kind {
	case vt.ColorTrueColor:
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	case vt.ColorNamed, vt.ColorPalette256:
		return lipgloss.Color(fmt.Sprintf("%d", c.Index))
	default:
		return ""
	}
}

// renderLine turns one StyledLine into a lipgloss-rendered string,
// collapsing consecutive cells that share a style into a single styled
// run (the same run-length grouping a real terminal renderer performs).
func renderLine(line vt.StyledLine) string {
	if len(line) == 0 {
		return ""
	}
	var out string
	runStart := 0
	flush := func(end int) {
		if end <= runStart {
			return
		}
		out += styleFor(line[runStart].Style).Render(runeString(line[runStart:end]))
	}
	for i := 1; i < len(line); i++ {
		if line[i].Style != line[runStart].Style {
			flush(i)
			runStart = i
		}
	}
	flush(len(line))
	return out
}

func runeString(cells vt.StyledLine) string {
	rs := make([]rune, len(cells))
	for i, c := range cells {
		if c.Rune == 0 {
			rs[i] = ' '
		} else {
			rs[i] = c.Rune
		}
	}
	return string(rs)
}

func styleFor(s vt.Style) lipgloss.Style {
	st := lipgloss.NewStyle()
	if fg := colorToLipgloss(s.FG); fg != "" {
		st = st.Foreground(fg)
	}
	if bg := colorToLipgloss(s.BG); bg != "" {
		st = st.Background(bg)
	} else {
		st = st.Background(lipgloss.Color("#1e1e1e"))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	if s.Strikethrough {
		st = st.Strikethrough(true)
	}
	if s.Reverse {
		st = st.Reverse(true)
	}
	return st
}
