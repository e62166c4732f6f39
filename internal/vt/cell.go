package vt

// Style carries every SGR attribute a cell can have.
type Style struct {
	FG, BG        Color
	Bold          bool
	Italic        bool
	Underline     bool
	Blink         bool
	Reverse       bool
	Strikethrough bool
}

// Cell is one character position on the screen.
type Cell struct {
	Rune  rune
	Style Style
}

var blankCell = Cell{Rune: ' '}

// StyledLine is one row of cells ready for rendering.
type StyledLine []Cell
