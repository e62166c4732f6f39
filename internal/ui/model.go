// Package ui is the Bubble Tea shell around the application coordinator
// (internal/app): it renders tree state and live terminal panes, and
// turns keystrokes into calls on the coordinator's already-exported
// operations. It never touches process handles itself; the one tree-state
// change it makes directly is group expand/collapse/toggle, through
// App.State().
package ui

import (
	"os/exec"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fnug/fnug/internal/app"
	"github.com/fnug/fnug/internal/tree"
	"github.com/fnug/fnug/internal/vt"
)

// key0 is a terser alias for key.Matches, used throughout handleKey's
// switch so each case reads as "this binding, this message".
func key0(b key.Binding, msg tea.KeyMsg) bool { return key.Matches(msg, b) }

// tickInterval is how often the model polls the coordinator for fresh
// emulator frames and tree state.
const tickInterval = 80 * time.Millisecond

// Model is the root Bubble Tea model. It never mutates the process-handle
// map directly. Group expand, collapse and toggle are called on
// App.State() directly; every other state change is issued as a call to
// one of App's exported methods (RunOne, Stop, ToggleSelect, ...).
type Model struct {
	app  *app.App
	keys KeyMap
	help help.Model

	rows   []row
	cursor int

	width, height int
	paneFocused   bool
	showHelp      bool

	searching bool
	search    textinput.Model

	quitting bool
}

// New builds a Model driving the given coordinator.
func New(a *app.App) *Model {
	ti := textinput.New()
	ti.Placeholder = "search commands…"
	return &Model{
		app:    a,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		rows:   flattenRoot(a.Root(), a.State()),
		search: ti,
	}
}

// Init starts the redraw tick.
func (m *Model) Init() tea.Cmd {
	return tick()
}

type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// fullscreenDoneMsg reports the outcome of a suspended/exclusive run.
type fullscreenDoneMsg struct {
	id string
	ok bool
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.app.Resize(paneRows(m.height), paneCols(m.width))
		return m, nil

	case tickMsg:
		m.rows = flattenRoot(m.app.Root(), m.app.State())
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		return m, tick()

	case fullscreenDoneMsg:
		m.app.FinishExternal(msg.id, msg.ok)
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key0(m.keys.Quit, msg):
		m.quitting = true
		m.app.Quit()
		return m, tea.Quit

	case key0(m.keys.Help, msg):
		m.showHelp = !m.showHelp
		return m, nil

	case key0(m.keys.Search, msg):
		m.searching = true
		m.search.Focus()
		return m, nil

	case key0(m.keys.Up, msg):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key0(m.keys.Down, msg):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key0(m.keys.Left, msg):
		if r := m.currentRow(); r != nil && r.isGroup {
			m.app.State().Collapse(r.groupID)
		}
		return m, nil

	case key0(m.keys.Right, msg):
		if r := m.currentRow(); r != nil && r.isGroup {
			m.app.State().Expand(r.groupID)
		}
		return m, nil

	case key0(m.keys.Toggle, msg):
		if r := m.currentRow(); r != nil {
			if r.isGroup {
				m.app.State().ToggleGroup(r.groupID)
			} else {
				m.app.ToggleSelect(r.commandID)
			}
		}
		return m, nil

	case key0(m.keys.SwitchPane, msg):
		m.paneFocused = !m.paneFocused
		return m, nil

	case key0(m.keys.SelectAll, msg):
		if r := m.currentRow(); r != nil {
			m.app.SelectAll(r.groupID)
		}
		return m, nil

	case key0(m.keys.DeselectAll, msg):
		if r := m.currentRow(); r != nil {
			m.app.DeselectAll(r.groupID)
		}
		return m, nil

	case key0(m.keys.Run, msg):
		if r := m.currentRow(); r != nil && !r.isGroup {
			m.app.SetFocused(r.commandID)
			m.app.RunOne(r.commandID)
		}
		return m, nil

	case key0(m.keys.Restart, msg):
		if r := m.currentRow(); r != nil && !r.isGroup {
			m.app.Restart(r.commandID)
		}
		return m, nil

	case key0(m.keys.Stop, msg):
		if r := m.currentRow(); r != nil && !r.isGroup {
			m.app.Stop(r.commandID)
		}
		return m, nil

	case key0(m.keys.Clear, msg):
		if r := m.currentRow(); r != nil && !r.isGroup {
			m.app.Clear(r.commandID)
		}
		return m, nil

	case key0(m.keys.RunAll, msg):
		m.app.RunMany(m.app.State().SelectedRunnableIDs())
		return m, nil

	case key0(m.keys.RerunFail, msg):
		if r := m.currentRow(); r != nil {
			m.app.RerunFailures(r.groupID)
		}
		return m, nil

	case key0(m.keys.AutoGit, msg):
		m.app.AutoSelectGit()
		return m, nil

	case key0(m.keys.RunFull, msg):
		if r := m.currentRow(); r != nil && !r.isGroup {
			return m, m.runFullscreen(r.commandID)
		}
		return m, nil

	case key0(m.keys.ScrollUp, msg):
		if r := m.currentRow(); r != nil && !r.isGroup {
			if e := m.app.Emulator(r.commandID); e != nil {
				e.Scroll(vt.ScrollUpDir)
			}
		}
		return m, nil

	case key0(m.keys.ScrollDown, msg):
		if r := m.currentRow(); r != nil && !r.isGroup {
			if e := m.app.Emulator(r.commandID); e != nil {
				e.Scroll(vt.ScrollDownDir)
			}
		}
		return m, nil
	}

	// Forward raw keystrokes to an interactive, focused, running command.
	if r := m.currentRow(); r != nil && !r.isGroup && m.paneFocused && m.app.IsInteractive(r.commandID) {
		_ = m.app.WriteInput(r.commandID, []byte(msg.String()))
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, nil
	case tea.KeyEnter:
		m.jumpToSearchMatch()
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) jumpToSearchMatch() {
	// Root().Paths indexes groups as well as commands; only command
	// matches are jump targets, so take the best-scored command rather
	// than matches[0] blindly.
	root := m.app.Root()
	for _, match := range fuzzyMatch(root.Paths, m.search.Value()) {
		if _, ok := root.CommandsByID[match.CommandID]; !ok {
			continue
		}
		for i, r := range m.rows {
			if !r.isGroup && r.commandID == match.CommandID {
				m.cursor = i
				return
			}
		}
	}
}

func (m *Model) currentRow() *row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

// runFullscreen implements the RunFullscreen intent: suspend the TUI, run
// the command attached directly to the real terminal, then resume and
// report the outcome as a tree-state transition.
func (m *Model) runFullscreen(id string) tea.Cmd {
	cmd := m.app.Root().CommandsByID[id]
	if cmd == nil {
		return nil
	}
	c := exec.Command("/bin/sh", "-c", cmd.Cmd)
	if cmd.Cwd != "" {
		c.Dir = cmd.Cwd
	}
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return fullscreenDoneMsg{id: id, ok: err == nil}
	})
}

func paneRows(height int) int {
	if height < 10 {
		return 10
	}
	return height - 4
}

func paneCols(width int) int {
	treeWidth := width / 3
	if treeWidth < 20 {
		treeWidth = 20
	}
	cols := width - treeWidth - 4
	if cols < 20 {
		cols = 20
	}
	return cols
}

// statusSummary renders the root group's aggregate counters for the
// footer bar.
func statusSummary(s tree.GroupSum) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		dimStyle.Render("total "), lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(s.Total)), "  ",
		dimStyle.Render("selected "), lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(s.Selected)), "  ",
		dimStyle.Render("running "), lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(strconv.Itoa(s.Running)), "  ",
		dimStyle.Render("success "), lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render(strconv.Itoa(s.Success)), "  ",
		dimStyle.Render("failure "), lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(strconv.Itoa(s.Failure)),
	)
}
