package vt

import "fmt"

// Color is either the zero value (terminal default), one of the 16 named
// ANSI colors/bright variants addressed by index, a 256-color palette
// index, or a 24-bit truecolor value.
type Color struct {
	Kind ColorKind
	// Index is used when Kind is Named or Palette256.
	Index uint8
	// R, G, B are used when Kind is TrueColor.
	R, G, B uint8
}

type ColorKind int

const (
	ColorDefault ColorKind = iota
	ColorNamed
	ColorPalette256
	ColorTrueColor
)

// namedColors are the standard 16, indices 0-7 normal and 8-15 bright.
// `brown` aliases to `yellow` and `bright-*` names map onto the bright
// half of the table.
var namedColors = [16]string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"bright_black", "bright_red", "bright_green", "bright_yellow",
	"bright_blue", "bright_magenta", "bright_cyan", "bright_white",
}

// NamedColor resolves a color name ("red", "brown", "bright-green", a
// 6-hex-digit string, or "default") to a Color.
func NamedColor(name string) Color {
	switch name {
	case "", "default":
		return Color{Kind: ColorDefault}
	case "brown":
		name = "yellow"
	}

	if len(name) == 6 && isHex(name) {
		var r, g, b uint8
		fmt.Sscanf(name, "%02x%02x%02x", &r, &g, &b)
		return Color{Kind: ColorTrueColor, R: r, G: g, B: b}
	}

	bright := false
	if len(name) > 7 && name[:7] == "bright-" {
		bright = true
		name = name[7:]
	} else if len(name) > 7 && name[:7] == "bright_" {
		bright = true
		name = name[7:]
	}

	for i, n := range namedColors[:8] {
		if n == name {
			if bright {
				return Color{Kind: ColorNamed, Index: uint8(i + 8)}
			}
			return Color{Kind: ColorNamed, Index: uint8(i)}
		}
	}
	return Color{Kind: ColorDefault}
}

func isHex(s string) bool {
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

// DefaultBackground is the live-screen background used when a cell carries
// no explicit background color.
var DefaultBackground = Color{Kind: ColorTrueColor, R: 0x1e, G: 0x1e, B: 0x1e}
