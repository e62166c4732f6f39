package vt

import "testing"

func renderText(e *Emulator) []string {
	lines := e.Render()
	out := make([]string, len(lines))
	for y, line := range lines {
		var s []rune
		for _, c := range line {
			if c.Rune == 0 {
				s = append(s, ' ')
			} else {
				s = append(s, c.Rune)
			}
		}
		out[y] = string(s)
	}
	return out
}

func TestFeedWritesPlainText(t *testing.T) {
	e := New(4, 20)
	e.Feed([]byte("hello"))
	lines := renderText(e)
	got := lines[0][:5]
	if got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestFeedHandlesNewlineAndCarriageReturn(t *testing.T) {
	e := New(4, 20)
	e.Feed([]byte("one\r\ntwo"))
	lines := renderText(e)
	if lines[0][:3] != "one" || lines[1][:3] != "two" {
		t.Fatalf("expected two lines one/two, got %q / %q", lines[0], lines[1])
	}
}

func TestFeedIsStatelessAcrossChunkSplits(t *testing.T) {
	whole := New(4, 20)
	whole.Feed([]byte("\x1b[1;31mhi\x1b[0m"))

	split := New(4, 20)
	msg := []byte("\x1b[1;31mhi\x1b[0m")
	for _, b := range msg {
		split.Feed([]byte{b})
	}

	a, b := renderText(whole), renderText(split)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs between whole and byte-split feed: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestSGRSetsForegroundColor(t *testing.T) {
	e := New(2, 10)
	e.Feed([]byte("\x1b[31mred"))
	lines := e.screen.Render()
	cell := lines[0][0]
	if cell.Style.FG.Kind != ColorNamed || cell.Style.FG.Index != 1 {
		t.Fatalf("expected red (index 1) foreground, got %+v", cell.Style.FG)
	}
}

func TestSGRTrueColor(t *testing.T) {
	e := New(2, 10)
	e.Feed([]byte("\x1b[38;2;10;20;30mx"))
	cell := e.screen.Render()[0][0]
	if cell.Style.FG.Kind != ColorTrueColor || cell.Style.FG.R != 10 || cell.Style.FG.G != 20 || cell.Style.FG.B != 30 {
		t.Fatalf("expected truecolor 10,20,30, got %+v", cell.Style.FG)
	}
}

func TestEraseInLineClearsToEnd(t *testing.T) {
	e := New(2, 10)
	e.Feed([]byte("abcdef"))
	e.Feed([]byte("\x1b[3G"))   // move to column 3
	e.Feed([]byte("\x1b[0K"))   // erase to end of line
	line := renderText(e)[0]
	if line[:2] != "ab" {
		t.Fatalf("expected erased line to start ab, got %q", line)
	}
}

func TestAlternateScreenSwitch(t *testing.T) {
	e := New(2, 10)
	e.Feed([]byte("primary"))
	e.Feed([]byte("\x1b[?1049h"))
	e.Feed([]byte("alt"))
	altLine := renderText(e)[0]
	if altLine[:3] != "alt" {
		t.Fatalf("expected alt screen content, got %q", altLine)
	}
	e.Feed([]byte("\x1b[?1049l"))
	primaryLine := renderText(e)[0]
	if primaryLine[:7] != "primary" {
		t.Fatalf("expected primary screen restored, got %q", primaryLine)
	}
}

func TestCursorVisibilityMode(t *testing.T) {
	e := New(2, 10)
	e.Feed([]byte("\x1b[?25l"))
	if e.screen.CursorVisible {
		t.Fatalf("expected cursor visibility off after ?25l")
	}
	e.Feed([]byte("\x1b[?25h"))
	if !e.screen.CursorVisible {
		t.Fatalf("expected cursor visibility on after ?25h")
	}
}

func TestApplicationCursorKeysMode(t *testing.T) {
	e := New(2, 10)
	e.Feed([]byte("\x1b[?1h"))
	if !e.ApplicationCursorKeys() {
		t.Fatalf("expected application cursor keys mode on")
	}
	e.Feed([]byte("\x1b[?1l"))
	if e.ApplicationCursorKeys() {
		t.Fatalf("expected application cursor keys mode off")
	}
}

func TestMouseSGRMode(t *testing.T) {
	e := New(2, 10)
	e.Feed([]byte("\x1b[?1000h\x1b[?1006h"))
	if !e.MouseEnabled() || !e.MouseSGR() {
		t.Fatalf("expected mouse tracking and SGR encoding enabled")
	}
}
