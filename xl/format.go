package xl

// StyleID is the index of a cell format (an xf record) in the workbook.
// StyleID 0 is the default format.
type StyleID int

// Format describes the formatting of a cell. Formats are plain values:
// two Formats with the same attributes are the same format and register to
// the same StyleID.
type Format struct {
	Font       Font
	Fill       Fill
	Border     Border
	Alignment  Alignment
	Protection Protection

	// NumFormat is a number format code such as "0.00" or "yyyy-mm-dd".
	// Codes that match a built-in format use the built-in id.
	NumFormat string
	// NumFormatID selects a built-in number format by id when NumFormat
	// is empty.
	NumFormatID int

	// Hyperlink marks the format as a hyperlink cell style.
	Hyperlink bool
}

// Fill is a cell pattern fill.
type Fill struct {
	Pattern Pattern
	FgColor Color
	BgColor Color
}

// Pattern is a fill pattern (ST_PatternType).
type Pattern int

const (
	PatternNone Pattern = iota
	PatternSolid
	PatternMediumGray
	PatternDarkGray
	PatternLightGray
	PatternDarkHorizontal
	PatternDarkVertical
	PatternDarkDown
	PatternDarkUp
	PatternDarkGrid
	PatternDarkTrellis
	PatternLightHorizontal
	PatternLightVertical
	PatternLightDown
	PatternLightUp
	PatternLightGrid
	PatternLightTrellis
	PatternGray125
	PatternGray0625
)

var patternNames = [...]string{
	"none", "solid", "mediumGray", "darkGray", "lightGray",
	"darkHorizontal", "darkVertical", "darkDown", "darkUp", "darkGrid",
	"darkTrellis", "lightHorizontal", "lightVertical", "lightDown",
	"lightUp", "lightGrid", "lightTrellis", "gray125", "gray0625",
}

func (p Pattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return patternNames[0]
	}
	return patternNames[p]
}

// Border describes the four cell edges and the diagonal.
type Border struct {
	Left, Right, Top, Bottom, Diagonal                      BorderStyle
	LeftColor, RightColor, TopColor, BottomColor, DiagColor Color
	DiagonalType                                            DiagonalType
}

// BorderStyle is a line style (ST_BorderStyle).
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderThin
	BorderMedium
	BorderDashed
	BorderDotted
	BorderThick
	BorderDouble
	BorderHair
	BorderMediumDashed
	BorderDashDot
	BorderMediumDashDot
	BorderDashDotDot
	BorderMediumDashDotDot
	BorderSlantDashDot
)

var borderStyleNames = [...]string{
	"none", "thin", "medium", "dashed", "dotted", "thick", "double", "hair",
	"mediumDashed", "dashDot", "mediumDashDot", "dashDotDot",
	"mediumDashDotDot", "slantDashDot",
}

func (b BorderStyle) String() string {
	if b < 0 || int(b) >= len(borderStyleNames) {
		return borderStyleNames[0]
	}
	return borderStyleNames[b]
}

// DiagonalType selects which diagonals are drawn.
type DiagonalType int

const (
	DiagonalNone DiagonalType = iota
	DiagonalUp
	DiagonalDown
	DiagonalUpDown
)

// Alignment holds the text layout of a cell.
type Alignment struct {
	Horizontal   HAlign
	Vertical     VAlign
	WrapText     bool
	ShrinkToFit  bool
	Indent       int
	Rotation     int // degrees, -90..90, or 270 for stacked text
	ReadingOrder int // 0 context, 1 left-to-right, 2 right-to-left
	JustifyLast  bool
}

// HAlign is a horizontal alignment.
type HAlign string

const (
	AlignGeneral          HAlign = ""
	AlignLeft             HAlign = "left"
	AlignCenter           HAlign = "center"
	AlignRight            HAlign = "right"
	AlignFill             HAlign = "fill"
	AlignJustify          HAlign = "justify"
	AlignCenterContinuous HAlign = "centerContinuous"
	AlignDistributed      HAlign = "distributed"
)

// VAlign is a vertical alignment.
type VAlign string

const (
	VAlignBottom      VAlign = ""
	VAlignTop         VAlign = "top"
	VAlignCenter      VAlign = "center"
	VAlignJustify     VAlign = "justify"
	VAlignDistributed VAlign = "distributed"
)

// Protection holds the cell protection flags. Cells are locked by default.
type Protection struct {
	Unlocked bool
	Hidden   bool
}

// canonical returns f with every implicit default made explicit and
// mutually exclusive settings resolved, so that == compares formats by
// what they render to.
func (f Format) canonical() Format {
	f.Font = f.Font.canonical()
	f.Fill = f.Fill.canonical()
	f.Border = f.Border.canonical()
	f.Alignment = f.Alignment.canonical()
	f.NumFormat = sanitizeText(f.NumFormat)
	if f.NumFormat != "" {
		if id, ok := builtinNumFormatID(f.NumFormat); ok {
			f.NumFormat, f.NumFormatID = "", id
		}
	}
	return f
}

func (f Fill) canonical() Fill {
	f.FgColor = f.FgColor.canonical()
	f.BgColor = f.BgColor.canonical()

	// Excel swaps the roles of the colors for solid fills, and a color
	// without a pattern is taken to mean a solid fill.
	if f.Pattern == PatternSolid && f.BgColor != "" && f.FgColor != "" {
		f.FgColor, f.BgColor = f.BgColor, f.FgColor
	}
	if f.Pattern <= PatternSolid && f.BgColor != "" && f.FgColor == "" {
		f.FgColor, f.BgColor = f.BgColor, ""
		f.Pattern = PatternSolid
	}
	if f.Pattern <= PatternSolid && f.BgColor == "" && f.FgColor != "" {
		f.Pattern = PatternSolid
	}
	return f
}

func (b Border) canonical() Border {
	b.LeftColor = b.LeftColor.canonical()
	b.RightColor = b.RightColor.canonical()
	b.TopColor = b.TopColor.canonical()
	b.BottomColor = b.BottomColor.canonical()
	b.DiagColor = b.DiagColor.canonical()
	if b.DiagonalType != DiagonalNone && b.Diagonal == BorderNone {
		b.Diagonal = BorderThin
	}
	return b
}

func (a Alignment) canonical() Alignment {
	// Indent is only valid for left, right and distributed alignment.
	if a.Indent != 0 && a.Horizontal != AlignLeft && a.Horizontal != AlignRight && a.Horizontal != AlignDistributed {
		a.Horizontal = AlignLeft
	}
	switch {
	case a.WrapText, a.Horizontal == AlignFill, a.Horizontal == AlignJustify, a.Horizontal == AlignDistributed:
		a.ShrinkToFit = false
	}
	if a.Horizontal != AlignDistributed || a.Indent != 0 {
		a.JustifyLast = false
	}
	return a
}

// applyAlignment reports whether the xf needs applyAlignment="1".
func (a Alignment) applyAlignment() bool {
	return a != Alignment{}
}

// hasAlignment reports whether an alignment element has to be written.
func (a Alignment) hasAlignment() bool {
	return a.Horizontal != AlignGeneral || a.Vertical != VAlignBottom ||
		a.Indent != 0 || a.Rotation != 0 || a.WrapText || a.ShrinkToFit ||
		a.ReadingOrder != 0
}

func (p Protection) isDefault() bool { return p == Protection{} }
