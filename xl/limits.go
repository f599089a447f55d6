package xl

// Hard limits of the SpreadsheetML format.
const (
	MaxRows            = 1_048_576
	MaxCols            = 16_384
	MaxStringLength    = 32_767 // characters per cell string
	MaxURLLength       = 2_079
	MaxURLTextLength   = 255 // hyperlink display text and tooltip
	MaxNameLength      = 255 // defined names
	MaxSheetNameLength = 31
)

func inBounds(row, col int) bool {
	return row >= 0 && row < MaxRows && col >= 0 && col < MaxCols
}
