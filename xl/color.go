package xl

import "strings"

// Color is an RGB color in hex notation, e.g. "FF0000" or "#ff0000".
// The empty Color means automatic.
type Color string

// Common colors.
const (
	ColorBlack  Color = "000000"
	ColorBlue   Color = "0000FF"
	ColorGray   Color = "808080"
	ColorGreen  Color = "008000"
	ColorRed    Color = "FF0000"
	ColorWhite  Color = "FFFFFF"
	ColorYellow Color = "FFFF00"
)

func (c Color) canonical() Color {
	s := strings.ToUpper(strings.TrimPrefix(string(c), "#"))
	if len(s) == 8 {
		s = s[2:] // drop alpha
	}
	return Color(s)
}

// argb is the form used by the rgb attribute.
func (c Color) argb() string {
	return "FF" + string(c.canonical())
}
