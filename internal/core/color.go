package core

import "fmt"

// Color is the foreground color of a screen cell. Values below 256 index the
// named palette; RGB colors carry a marker bit above the 24-bit value.
type Color uint32

// Named palette colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

const rgbFlag Color = 1 << 24

// ansiCodes maps palette entries to ANSI 256-color codes.
var ansiCodes = map[Color]string{
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightYellow:  "11",
	ColorBrightBlue:    "12",
	ColorBrightMagenta: "13",
	ColorBrightCyan:    "14",
	ColorBrightWhite:   "15",
	ColorOrange:        "208",
	ColorGray:          "245",
}

// RGB returns a true color from a 0xRRGGBB value.
func RGB(hex uint32) Color {
	return rgbFlag | Color(hex&0xFFFFFF)
}

// IsRGB reports whether c is a true color.
func (c Color) IsRGB() bool {
	return c&rgbFlag != 0
}

// Spec returns the color as understood by terminal styling libraries: "#RRGGBB"
// for true colors, an ANSI code for palette colors, or "" for the default.
func (c Color) Spec() string {
	if c.IsRGB() {
		return fmt.Sprintf("#%06X", uint32(c&0xFFFFFF))
	}
	return ansiCodes[c]
}
