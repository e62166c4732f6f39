package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is fnug's TUI key bindings: one key.Binding field per action,
// help text attached.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	ToggleGroup key.Binding
	SwitchPane  key.Binding
	Run         key.Binding
	RunFull     key.Binding
	Restart     key.Binding
	Stop        key.Binding
	Clear       key.Binding
	RunAll      key.Binding
	RerunFail   key.Binding
	SelectAll   key.Binding
	DeselectAll key.Binding
	AutoGit     key.Binding
	Search      key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns fnug's default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		ToggleGroup: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select group")),
		SwitchPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Run:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		RunFull:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "run fullscreen")),
		Restart:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart")),
		Stop:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		RunAll:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "run selected")),
		RerunFail:   key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "rerun failures")),
		SelectAll:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all")),
		DeselectAll: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "deselect all")),
		AutoGit:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "auto-select git")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ScrollUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "scroll up")),
		ScrollDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "scroll down")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Run, k.Stop, k.RunAll, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.ToggleGroup, k.SelectAll, k.DeselectAll},
		{k.Run, k.RunFull, k.Restart, k.Stop, k.Clear},
		{k.RunAll, k.RerunFail, k.AutoGit, k.Search},
		{k.ScrollUp, k.ScrollDown, k.Help, k.Quit},
	}
}
