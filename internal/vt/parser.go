package vt

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCSI
	stateOSC
)

// Parser is a small VT100/xterm-256color stream parser: SGR, cursor
// movement, erase, scroll region, DECSC/DECRC, alternate screen, and
// application-cursor-keys / SGR-mouse private modes. It understands the
// bounded subset of VT100/xterm that shells, git, cargo/uv/npm and common
// test runners emit.
type Parser struct {
	screen *Screen

	state  parserState
	params []int
	hasArg bool
	inter  byte // intermediate byte before a CSI final (e.g. '?')
}

// NewParser builds a parser that feeds the given screen.
func NewParser(screen *Screen) *Parser {
	return &Parser{screen: screen}
}

// Feed parses a chunk of bytes, updating the screen. Feed is safe to call
// with an arbitrarily split byte stream: state carries over between
// calls, so feeding b1 then b2 is equivalent to feeding b1++b2.
func (p *Parser) Feed(data []byte) {
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch p.state {
		case stateGround:
			p.feedGround(data, &i, b)
		case stateEscape:
			p.feedEscape(b)
		case stateCSI:
			p.feedCSI(b)
		case stateOSC:
			if b == 0x07 || b == 0x1b {
				p.state = stateGround
			}
		}
	}
}

func (p *Parser) feedGround(data []byte, i *int, b byte) {
	switch b {
	case 0x1b:
		p.state = stateEscape
	case '\n':
		p.screen.LineFeed()
	case '\r':
		p.screen.CarriageReturn()
	case '\b':
		p.screen.Backspace()
	case '\t':
		p.screen.Tab()
	case 0x07: // BEL
	default:
		if b < 0x20 {
			return
		}
		r, size := decodeRune(data[*i:])
		p.screen.Put(r)
		*i += size - 1
	}
}

// decodeRune decodes one UTF-8 rune from the head of buf, falling back to
// a single-byte Latin-1-ish read on malformed input so a torn multi-byte
// sequence at a chunk boundary never panics or desyncs the parser for long.
func decodeRune(buf []byte) (rune, int) {
	b0 := buf[0]
	if b0 < 0x80 {
		return rune(b0), 1
	}
	n := 0
	switch {
	case b0&0xe0 == 0xc0:
		n = 2
	case b0&0xf0 == 0xe0:
		n = 3
	case b0&0xf8 == 0xf0:
		n = 4
	default:
		return rune(b0), 1
	}
	if len(buf) < n {
		return rune(b0), 1
	}
	r := rune(b0 & (0xff >> (n + 1)))
	for k := 1; k < n; k++ {
		if buf[k]&0xc0 != 0x80 {
			return rune(b0), 1
		}
		r = r<<6 | rune(buf[k]&0x3f)
	}
	return r, n
}

func (p *Parser) feedEscape(b byte) {
	switch b {
	case '[':
		p.state = stateCSI
		p.params = p.params[:0]
		p.hasArg = false
		p.inter = 0
	case ']':
		p.state = stateOSC
	case '7':
		p.screen.SaveCursor()
		p.state = stateGround
	case '8':
		p.screen.RestoreCursor()
		p.state = stateGround
	case 'D':
		p.screen.LineFeed()
		p.state = stateGround
	case 'M':
		p.screen.CursorUp(1)
		p.state = stateGround
	case 'c':
		p.screen.Clear()
		p.state = stateGround
	default:
		// Charset-designation and similar two-byte escapes: absorb and
		// return to ground without acting on them.
		p.state = stateGround
	}
}

func (p *Parser) feedCSI(b byte) {
	switch {
	case b >= '0' && b <= '9':
		if !p.hasArg {
			p.params = append(p.params, 0)
			p.hasArg = true
		}
		last := len(p.params) - 1
		p.params[last] = p.params[last]*10 + int(b-'0')
	case b == ';':
		if !p.hasArg {
			p.params = append(p.params, 0)
		}
		p.hasArg = false
	case b == '?' || b == '>' || b == '!':
		p.inter = b
	default:
		p.finishCSI(b)
		p.state = stateGround
	}
}

func (p *Parser) arg(idx, def int) int {
	if idx >= len(p.params) || p.params[idx] == 0 {
		return def
	}
	return p.params[idx]
}

func (p *Parser) finishCSI(final byte) {
	s := p.screen
	switch final {
	case 'A':
		s.CursorUp(p.arg(0, 1))
	case 'B':
		s.CursorDown(p.arg(0, 1))
	case 'C':
		s.CursorForward(p.arg(0, 1))
	case 'D':
		s.CursorBack(p.arg(0, 1))
	case 'G':
		s.MoveCursorTo(s.cursor.Row, p.arg(0, 1)-1)
	case 'H', 'f':
		s.MoveCursorTo(p.arg(0, 1)-1, p.arg(1, 1)-1)
	case 'J':
		s.EraseInDisplay(p.arg(0, 0))
	case 'K':
		s.EraseInLine(p.arg(0, 0))
	case 'L':
		for n := 0; n < p.arg(0, 1); n++ {
			s.scrollRegionDownAt(s.cursor.Row)
		}
	case 'M':
		for n := 0; n < p.arg(0, 1); n++ {
			s.scrollRegionUpAt(s.cursor.Row)
		}
	case 'P':
		s.deleteChars(p.arg(0, 1))
	case 'X':
		s.eraseChars(p.arg(0, 1))
	case 'S':
		for n := 0; n < p.arg(0, 1); n++ {
			s.scrollRegionUp()
		}
	case 'T':
		for n := 0; n < p.arg(0, 1); n++ {
			s.scrollRegionDownAt(s.scrollTop)
		}
	case 'r':
		s.SetScrollRegion(p.arg(0, 1), p.arg(1, s.rows))
	case 's':
		s.SaveCursor()
	case 'u':
		s.RestoreCursor()
	case 'm':
		p.applySGR()
	case 'h', 'l':
		p.applyMode(final == 'h')
	}
}

func (p *Parser) applyMode(set bool) {
	if p.inter != '?' {
		return
	}
	for _, mode := range p.params {
		switch mode {
		case 1: // DECCKM
			p.screen.ApplicationCursorKeys = set
		case 25: // cursor visibility
			p.screen.CursorVisible = set
		case 47, 1049: // alternate screen
			if set {
				p.screen.EnterAlternateScreen()
			} else {
				p.screen.ExitAlternateScreen()
			}
		case 1000, 1002, 1003: // mouse tracking
			p.screen.MouseEnabled = set
		case 1006: // SGR mouse encoding
			p.screen.MouseSGR = set
		}
	}
}

func (p *Parser) applySGR() {
	if len(p.params) == 0 {
		p.screen.style = Style{}
		return
	}
	style := p.screen.style
	for i := 0; i < len(p.params); i++ {
		code := p.params[i]
		switch {
		case code == 0:
			style = Style{}
		case code == 1:
			style.Bold = true
		case code == 3:
			style.Italic = true
		case code == 4:
			style.Underline = true
		case code == 5:
			style.Blink = true
		case code == 7:
			style.Reverse = true
		case code == 9:
			style.Strikethrough = true
		case code == 22:
			style.Bold = false
		case code == 23:
			style.Italic = false
		case code == 24:
			style.Underline = false
		case code == 25:
			style.Blink = false
		case code == 27:
			style.Reverse = false
		case code == 29:
			style.Strikethrough = false
		case code >= 30 && code <= 37:
			style.FG = Color{Kind: ColorNamed, Index: uint8(code - 30)}
		case code == 38:
			color, consumed := p.extendedColor(p.params[i+1:])
			style.FG = color
			i += consumed
		case code == 39:
			style.FG = Color{Kind: ColorDefault}
		case code >= 40 && code <= 47:
			style.BG = Color{Kind: ColorNamed, Index: uint8(code - 40)}
		case code == 48:
			color, consumed := p.extendedColor(p.params[i+1:])
			style.BG = color
			i += consumed
		case code == 49:
			style.BG = Color{Kind: ColorDefault}
		case code >= 90 && code <= 97:
			style.FG = Color{Kind: ColorNamed, Index: uint8(code-90) + 8}
		case code >= 100 && code <= 107:
			style.BG = Color{Kind: ColorNamed, Index: uint8(code-100) + 8}
		}
	}
	p.screen.style = style
}

// extendedColor parses the arguments after an SGR 38/48 code: either
// `5;N` (256-color palette) or `2;R;G;B` (truecolor). Returns the color and
// how many extra params were consumed.
func (p *Parser) extendedColor(rest []int) (Color, int) {
	if len(rest) == 0 {
		return Color{Kind: ColorDefault}, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) >= 2 {
			return Color{Kind: ColorPalette256, Index: uint8(rest[1])}, 2
		}
	case 2:
		if len(rest) >= 4 {
			return Color{Kind: ColorTrueColor, R: uint8(rest[1]), G: uint8(rest[2]), B: uint8(rest[3])}, 4
		}
	}
	return Color{Kind: ColorDefault}, len(rest)
}
