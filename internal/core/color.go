package core

// Color is the foreground of a screen cell. The platform layer maps each
// value to an ANSI 256-color code.
type Color uint8

// Tile and HUD colors, from dim to loud.
const (
	ColorDefault Color = iota
	ColorGray
	ColorWhite
	ColorOrange
	ColorRed
	ColorYellow
	ColorCyan
	ColorBrightYellow
	ColorBrightMagenta
)
