package vt

import (
	"fmt"
	"sync"
)

// Emulator is the public entry point for a VT100/xterm-256color
// terminal emulator fed raw PTY bytes and queried for renderable frames.
// It owns no file descriptors and performs no I/O. Its two writers (the
// PTY reader task feeding bytes, and the coordinator echoing banners) and
// any render-loop reader serialize on an internal mutex.
type Emulator struct {
	mu     sync.Mutex
	screen *Screen
	parser *Parser
}

// New builds an emulator sized rows×cols with the default scrollback
// depth.
func New(rows, cols int) *Emulator {
	return NewWithHistory(rows, cols, MaxScrollback)
}

// NewWithHistory builds an emulator whose scrollback retains up to
// historyLines lines. Values outside (0, MaxScrollback] fall back to
// MaxScrollback.
func NewWithHistory(rows, cols, historyLines int) *Emulator {
	if historyLines <= 0 || historyLines > MaxScrollback {
		historyLines = MaxScrollback
	}
	s := NewScreenWithHistory(rows, cols, historyLines)
	return &Emulator{screen: s, parser: NewParser(s)}
}

// Feed parses a chunk of the child process's PTY output. Safe to call with
// an arbitrarily chunked byte stream.
func (e *Emulator) Feed(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.parser.Feed(data)
}

// Resize reflows the primary screen to rows×cols.
func (e *Emulator) Resize(rows, cols int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.screen.Resize(rows, cols)
}

// Scroll moves the scrollback viewport by one page.
func (e *Emulator) Scroll(dir ScrollDirection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.screen.Scroll(dir)
}

// AtScrollTop reports whether Scroll(ScrollUpDir) would have no effect.
func (e *Emulator) AtScrollTop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screen.AtScrollTop()
}

// Render yields the currently visible rows lines, cursor cell inverted.
func (e *Emulator) Render() []StyledLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screen.Render()
}

// Clear resets to a blank screen and discards scrollback.
func (e *Emulator) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.screen.Clear()
}

// ApplicationCursorKeys and MouseSGR report whether the child has switched
// on DECCKM (?1) and SGR mouse encoding (?1006).
func (e *Emulator) ApplicationCursorKeys() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screen.ApplicationCursorKeys
}

func (e *Emulator) MouseSGR() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screen.MouseSGR
}

func (e *Emulator) MouseEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screen.MouseEnabled
}

// banner colors: the prompt-marker orange plus green/red for the
// success/failure banners.
var (
	promptColor  = Color{Kind: ColorTrueColor, R: 0xcf, G: 0x6a, B: 0x4c}
	successColor = Color{Kind: ColorNamed, Index: 2} // green
	failureColor = Color{Kind: ColorNamed, Index: 1} // red
	dimColor     = Color{Kind: ColorTrueColor, R: 0x80, G: 0x80, B: 0x80}
)

// segment is one differently-styled run of text inside an echoed banner
// line.
type segment struct {
	Text  string
	Style Style
}

// echoLine writes one pre-styled banner line. blankBefore inserts an empty
// line separating the banner from the child's last output. Caller must NOT
// hold e.mu.
func (e *Emulator) echoLine(blankBefore bool, segments ...segment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if blankBefore {
		e.screen.CarriageReturn()
		e.screen.LineFeed()
	}
	for _, seg := range segments {
		e.screen.style = seg.Style
		for _, r := range seg.Text {
			e.screen.Put(r)
		}
	}
	e.screen.style = Style{}
	e.screen.CarriageReturn()
	e.screen.LineFeed()
}

// EchoCommandBanner writes the "❱ <command>" prompt line injected before a
// command starts running.
func (e *Emulator) EchoCommandBanner(command string) {
	e.echoLine(false,
		segment{"❱ ", Style{FG: promptColor}},
		segment{command, Style{}},
	)
}

// EchoSuccessBanner writes the green success banner on a zero exit code.
func (e *Emulator) EchoSuccessBanner() {
	e.echoLine(true,
		segment{"❱ ", Style{FG: promptColor}},
		segment{"Success", Style{}},
		segment{" ✔", Style{FG: successColor}},
	)
}

// EchoFailureBanner writes the red failure banner with the exit code.
func (e *Emulator) EchoFailureBanner(exitCode int) {
	e.echoLine(true,
		segment{"❱ ", Style{FG: promptColor}},
		segment{"Command failed", Style{}},
		segment{" ✘", Style{FG: failureColor}},
		segment{fmt.Sprintf(" (exit code %d)", exitCode), Style{FG: dimColor}},
	)
}

// EchoCancelledBanner writes the banner shown when the coordinator stops a
// running command (Stop intent).
func (e *Emulator) EchoCancelledBanner() {
	e.echoLine(true,
		segment{"❱ ", Style{FG: promptColor}},
		segment{"Stopped", Style{}},
		segment{" ■", Style{FG: dimColor}},
	)
}

// EchoSpawnError writes the banner recording why a command could not be
// started at all (PTY open or exec failure).
func (e *Emulator) EchoSpawnError(msg string) {
	e.echoLine(true,
		segment{"❱ ", Style{FG: promptColor}},
		segment{"Failed to start", Style{}},
		segment{" ✘", Style{FG: failureColor}},
		segment{" " + msg, Style{FG: dimColor}},
	)
}
