package xl

// Font represents font formatting properties for cell content.
// These properties correspond to the OpenXML font element as defined in ECMA-376.
// The zero value is the workbook default font (Calibri 11).
type Font struct {
	Name          string        // Font name ("" = Calibri)
	Size          float64       // Font size in points (0 = use default of 11)
	Bold          bool          // Bold text
	Italic        bool          // Italic text
	Underline     UnderlineType // Underline style
	Strikethrough bool          // Strikethrough text
	Outline       bool
	Shadow        bool
	Script        FontScript
	Color         Color // RGB color, "" = automatic
	Theme         int   // theme color index, used when Color is empty
	Family        int   // font family (0 = default of 2, swiss)
	Charset       int
	Scheme        string // font scheme, "minor" for the default font
}

// UnderlineType represents the type of underline formatting.
type UnderlineType string

// Underline type constants as defined in ECMA-376 (ST_UnderlineValues).
const (
	UnderlineNone             UnderlineType = ""                 // No underline (default)
	UnderlineSingle           UnderlineType = "single"           // Single underline
	UnderlineDouble           UnderlineType = "double"           // Double underline
	UnderlineSingleAccounting UnderlineType = "singleAccounting" // Single accounting underline
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting" // Double accounting underline
)

// FontScript selects superscript or subscript text.
type FontScript int

const (
	ScriptNone FontScript = iota
	ScriptSuperscript
	ScriptSubscript
)

const (
	defaultFontName   = "Calibri"
	defaultFontSize   = 11
	defaultFontFamily = 2
	defaultFontScheme = "minor"
	defaultFontTheme  = 1
)

// canonical fills in the implicit defaults so that fonts that render
// identically compare equal.
func (f Font) canonical() Font {
	f.Name = sanitizeText(f.Name)
	if f.Name == "" {
		f.Name = defaultFontName
	}
	if f.Size == 0 {
		f.Size = defaultFontSize
	}
	if f.Family == 0 {
		f.Family = defaultFontFamily
	}
	if f.Name == defaultFontName && f.Scheme == "" {
		f.Scheme = defaultFontScheme
	}
	f.Color = f.Color.canonical()
	if f.Color != "" {
		f.Theme = 0
	}
	return f
}
