package core

// Color represents a foreground color for a screen cell.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightYellow
	ColorBrightBlue
	ColorOrange
	ColorGray
)
