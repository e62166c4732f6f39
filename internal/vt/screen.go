package vt

// ScrollDirection selects which way Screen.Scroll moves the viewport.
type ScrollDirection int

const (
	ScrollUpDir ScrollDirection = iota
	ScrollDownDir
)

type cursorPos struct {
	Row, Col int
}

// Screen is the primary-screen-plus-scrollback data structure. It is a
// pure data structure: Feed (in parser.go) is the only thing that mutates
// it from bytes; it does no I/O of its own.
type Screen struct {
	rows, cols int

	buffer    [][]Cell
	altBuffer [][]Cell
	usingAlt  bool

	history *History

	cursor      cursorPos
	savedCursor cursorPos
	savedStyle  Style

	style Style

	scrollTop, scrollBottom int // inclusive, 0-indexed

	CursorVisible         bool
	ApplicationCursorKeys bool
	MouseEnabled          bool
	MouseSGR              bool

	dirty map[int]bool
}

// MaxScrollback is the scrollback ring's line ceiling.
const MaxScrollback = 5000

// NewScreen builds a blank rows×cols screen with an empty scrollback ring.
func NewScreen(rows, cols int) *Screen {
	return NewScreenWithHistory(rows, cols, MaxScrollback)
}

// NewScreenWithHistory builds a blank screen whose scrollback ring holds up
// to historyLines lines.
func NewScreenWithHistory(rows, cols, historyLines int) *Screen {
	s := &Screen{
		rows: rows, cols: cols,
		history:       NewHistory(historyLines),
		scrollBottom:  rows - 1,
		CursorVisible: true,
		dirty:         map[int]bool{},
	}
	s.buffer = blankGrid(rows, cols)
	return s
}

func blankGrid(rows, cols int) [][]Cell {
	g := make([][]Cell, rows)
	for y := range g {
		g[y] = make([]Cell, cols)
		for x := range g[y] {
			g[y][x] = blankCell
		}
	}
	return g
}

func (s *Screen) markDirty(row int) { s.dirty[row] = true }

// Clear resets the screen to blank and discards scrollback.
func (s *Screen) Clear() {
	s.buffer = blankGrid(s.rows, s.cols)
	s.altBuffer = blankGrid(s.rows, s.cols)
	s.history.Reset()
	s.cursor = cursorPos{}
	s.style = Style{}
	s.usingAlt = false
	s.scrollTop, s.scrollBottom = 0, s.rows-1
	s.dirty = map[int]bool{}
}

// Resize reflows the primary screen to rows×cols. Scrollback line widths
// are left as-is.
func (s *Screen) Resize(rows, cols int) {
	s.buffer = resizeGrid(s.buffer, rows, cols)
	s.altBuffer = resizeGrid(s.altBuffer, rows, cols)
	s.rows, s.cols = rows, cols
	if s.scrollBottom > rows-1 || s.scrollBottom == 0 {
		s.scrollBottom = rows - 1
	}
	if s.cursor.Row >= rows {
		s.cursor.Row = rows - 1
	}
	if s.cursor.Col >= cols {
		s.cursor.Col = cols - 1
	}
}

func resizeGrid(old [][]Cell, rows, cols int) [][]Cell {
	g := blankGrid(rows, cols)
	for y := 0; y < rows && y < len(old); y++ {
		for x := 0; x < cols && x < len(old[y]); x++ {
			g[y][x] = old[y][x]
		}
	}
	return g
}

func (s *Screen) active() [][]Cell {
	if s.usingAlt {
		return s.altBuffer
	}
	return s.buffer
}

// Put writes r at the cursor with the current style and advances the
// cursor, wrapping to the next line (and scrolling) at the right margin.
func (s *Screen) Put(r rune) {
	buf := s.active()
	if s.cursor.Col >= s.cols {
		s.cursor.Col = 0
		s.lineFeed()
		buf = s.active()
	}
	buf[s.cursor.Row][s.cursor.Col] = Cell{Rune: r, Style: s.style}
	s.markDirty(s.cursor.Row)
	s.cursor.Col++
}

// CarriageReturn moves the cursor to column 0.
func (s *Screen) CarriageReturn() { s.cursor.Col = 0 }

// LineFeed moves the cursor down one row, scrolling the scroll region
// (and, on the primary screen, the history) if already at the bottom
// margin.
func (s *Screen) LineFeed() { s.lineFeed() }

func (s *Screen) lineFeed() {
	if s.cursor.Row == s.scrollBottom {
		s.scrollRegionUp()
		return
	}
	if s.cursor.Row < s.rows-1 {
		s.cursor.Row++
	}
}

// scrollRegionUp shifts the active scroll region up by one line. On the
// primary screen with an unrestricted region, the departing top line
// joins the scrollback history; the alternate screen never does.
func (s *Screen) scrollRegionUp() {
	buf := s.active()
	if !s.usingAlt && s.scrollTop == 0 {
		s.history.pushTop(buf[s.scrollTop])
	}
	for y := s.scrollTop; y < s.scrollBottom; y++ {
		buf[y] = buf[y+1]
	}
	buf[s.scrollBottom] = make([]Cell, s.cols)
	for x := range buf[s.scrollBottom] {
		buf[s.scrollBottom][x] = blankCell
	}
	for y := s.scrollTop; y <= s.scrollBottom; y++ {
		s.markDirty(y)
	}
}

// scrollRegionUpAt shifts rows [at, scrollBottom] up by one, used by IL/DL
// (CSI L / CSI M) which operate at the cursor row rather than always at
// scrollTop.
func (s *Screen) scrollRegionUpAt(at int) {
	buf := s.active()
	if at < s.scrollTop || at > s.scrollBottom {
		return
	}
	for y := at; y < s.scrollBottom; y++ {
		buf[y] = buf[y+1]
	}
	buf[s.scrollBottom] = blankRow(s.cols)
	for y := at; y <= s.scrollBottom; y++ {
		s.markDirty(y)
	}
}

// scrollRegionDownAt shifts rows [at, scrollBottom] down by one, inserting
// a blank row at at.
func (s *Screen) scrollRegionDownAt(at int) {
	buf := s.active()
	if at < s.scrollTop || at > s.scrollBottom {
		return
	}
	for y := s.scrollBottom; y > at; y-- {
		buf[y] = buf[y-1]
	}
	buf[at] = blankRow(s.cols)
	for y := at; y <= s.scrollBottom; y++ {
		s.markDirty(y)
	}
}

func blankRow(cols int) []Cell {
	row := make([]Cell, cols)
	for x := range row {
		row[x] = blankCell
	}
	return row
}

// deleteChars implements CSI P: remove n characters at the cursor, shifting
// the remainder of the line left and padding with blanks at the right edge.
func (s *Screen) deleteChars(n int) {
	buf := s.active()
	row := buf[s.cursor.Row]
	for x := s.cursor.Col; x < s.cols; x++ {
		if x+n < s.cols {
			row[x] = row[x+n]
		} else {
			row[x] = blankCell
		}
	}
	s.markDirty(s.cursor.Row)
}

// eraseChars implements CSI X: blank n characters starting at the cursor
// without shifting the rest of the line.
func (s *Screen) eraseChars(n int) {
	buf := s.active()
	row := buf[s.cursor.Row]
	for x := s.cursor.Col; x < s.cursor.Col+n && x < s.cols; x++ {
		row[x] = blankCell
	}
	s.markDirty(s.cursor.Row)
}

// Backspace moves the cursor left one column, stopping at column 0.
func (s *Screen) Backspace() {
	if s.cursor.Col > 0 {
		s.cursor.Col--
	}
}

// Tab advances the cursor to the next multiple-of-8 column stop.
func (s *Screen) Tab() {
	next := (s.cursor.Col/8 + 1) * 8
	if next >= s.cols {
		next = s.cols - 1
	}
	s.cursor.Col = next
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MoveCursorTo sets the cursor to an absolute, 0-indexed position.
func (s *Screen) MoveCursorTo(row, col int) {
	s.cursor.Row = clamp(row, 0, s.rows-1)
	s.cursor.Col = clamp(col, 0, s.cols-1)
}

// CursorUp/Down/Forward/Back move the cursor relatively, clamped to the
// screen bounds (ignoring scroll-region semantics, matching typical CUU/
// CUD/CUF/CUB behavior outside of a DECSTBM-bound application).
func (s *Screen) CursorUp(n int)      { s.cursor.Row = clamp(s.cursor.Row-n, 0, s.rows-1) }
func (s *Screen) CursorDown(n int)    { s.cursor.Row = clamp(s.cursor.Row+n, 0, s.rows-1) }
func (s *Screen) CursorForward(n int) { s.cursor.Col = clamp(s.cursor.Col+n, 0, s.cols-1) }
func (s *Screen) CursorBack(n int)    { s.cursor.Col = clamp(s.cursor.Col-n, 0, s.cols-1) }

// EraseInLine implements CSI K: 0=cursor-to-end, 1=start-to-cursor, 2=all.
func (s *Screen) EraseInLine(mode int) {
	buf := s.active()
	row := buf[s.cursor.Row]
	switch mode {
	case 0:
		for x := s.cursor.Col; x < s.cols; x++ {
			row[x] = blankCell
		}
	case 1:
		for x := 0; x <= s.cursor.Col && x < s.cols; x++ {
			row[x] = blankCell
		}
	case 2:
		for x := range row {
			row[x] = blankCell
		}
	}
	s.markDirty(s.cursor.Row)
}

// EraseInDisplay implements CSI J: 0=cursor-to-end, 1=start-to-cursor, 2=all.
func (s *Screen) EraseInDisplay(mode int) {
	buf := s.active()
	switch mode {
	case 0:
		s.EraseInLine(0)
		for y := s.cursor.Row + 1; y < s.rows; y++ {
			for x := range buf[y] {
				buf[y][x] = blankCell
			}
			s.markDirty(y)
		}
	case 1:
		s.EraseInLine(1)
		for y := 0; y < s.cursor.Row; y++ {
			for x := range buf[y] {
				buf[y][x] = blankCell
			}
			s.markDirty(y)
		}
	case 2, 3:
		for y := range buf {
			for x := range buf[y] {
				buf[y][x] = blankCell
			}
			s.markDirty(y)
		}
	}
}

// SetScrollRegion implements DECSTBM (CSI r), 1-indexed inclusive bounds as
// received from the wire.
func (s *Screen) SetScrollRegion(top, bottom int) {
	if top < 1 {
		top = 1
	}
	if bottom < 1 || bottom > s.rows {
		bottom = s.rows
	}
	if top >= bottom {
		s.scrollTop, s.scrollBottom = 0, s.rows-1
		return
	}
	s.scrollTop, s.scrollBottom = top-1, bottom-1
}

// SaveCursor / RestoreCursor implement DECSC/DECRC (ESC 7 / ESC 8, and
// CSI s / CSI u).
func (s *Screen) SaveCursor() {
	s.savedCursor = s.cursor
	s.savedStyle = s.style
}

func (s *Screen) RestoreCursor() {
	s.cursor = s.savedCursor
	s.style = s.savedStyle
}

// EnterAlternateScreen / ExitAlternateScreen implement the ?1049/?47
// private modes. Entering saves the cursor and homes it on a blank grid;
// leaving restores the saved cursor. The alternate screen never touches
// scrollback.
func (s *Screen) EnterAlternateScreen() {
	if s.usingAlt {
		return
	}
	s.SaveCursor()
	s.altBuffer = blankGrid(s.rows, s.cols)
	s.usingAlt = true
	s.cursor = cursorPos{}
}

func (s *Screen) ExitAlternateScreen() {
	if !s.usingAlt {
		return
	}
	s.usingAlt = false
	s.RestoreCursor()
}

// Scroll moves the scrollback viewport by one page in dir, implementing
// `scroll(direction)` operation.
func (s *Screen) Scroll(dir ScrollDirection) {
	switch dir {
	case ScrollUpDir:
		s.history.PrevPage(s.buffer, s.rows)
	case ScrollDownDir:
		s.history.NextPage(s.buffer, s.rows)
	}
}

// AtScrollTop reports whether the viewport cannot scroll up any further.
func (s *Screen) AtScrollTop() bool { return s.history.AtTop() }

// Render yields the currently visible rows lines with the cursor cell
// visually inverted. The cursor is only drawn when the view is live (not
// scrolled back).
func (s *Screen) Render() []StyledLine {
	buf := s.active()
	lines := make([]StyledLine, len(buf))
	for y, row := range buf {
		line := make(StyledLine, len(row))
		copy(line, row)
		if s.CursorVisible && s.history.position == s.history.size && y == s.cursor.Row && s.cursor.Col < len(line) {
			cell := line[s.cursor.Col]
			cell.Style.Reverse = !cell.Style.Reverse
			line[s.cursor.Col] = cell
		}
		lines[y] = line
	}
	return lines
}
