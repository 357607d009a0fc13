package core

// Color is a foreground color for a screen cell. The platform maps each
// value to a terminal color; games only pick roles.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGold
	ColorGray
	ColorDimGray
)
