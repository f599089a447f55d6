package xl

// Cell is a single cell value together with its format. It is a tagged
// union: Type selects which of the remaining fields are meaningful.
type Cell struct {
	Type  CellType
	Style StyleID

	num  float64   // Bool (0/1), Number, Date, Formula cached number
	str  string    // Formula text, InlineString, Error, Formula cached string
	sst  int       // SharedString, RichString
	runs []RichRun // InlineRichString
	res  string    // Formula cached string result
	text bool      // Formula result is res, even when empty
	pic  int       // Picture: index into the workbook media table
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeUnset CellType = iota
	CellTypeBool
	CellTypeDate
	CellTypeError
	CellTypeFormula
	CellTypeInlineString
	CellTypeNumber
	CellTypeSharedString
	CellTypeRichString
	CellTypeInlineRichString
	CellTypeBlank
	CellTypePicture
)

func (t CellType) String() string {
	switch t {
	case CellTypeBool:
		return "bool"
	case CellTypeDate:
		return "date"
	case CellTypeError:
		return "error"
	case CellTypeFormula:
		return "formula"
	case CellTypeInlineString:
		return "inline string"
	case CellTypeNumber:
		return "number"
	case CellTypeSharedString:
		return "shared string"
	case CellTypeRichString:
		return "rich string"
	case CellTypeInlineRichString:
		return "inline rich string"
	case CellTypeBlank:
		return "blank"
	case CellTypePicture:
		return "picture"
	}
	return "unset"
}

func boolCell(v bool, style StyleID) Cell {
	c := Cell{Type: CellTypeBool, Style: style}
	if v {
		c.num = 1
	}
	return c
}

func numberCell(v float64, style StyleID) Cell {
	return Cell{Type: CellTypeNumber, Style: style, num: v}
}

func dateCell(serial float64, style StyleID) Cell {
	return Cell{Type: CellTypeDate, Style: style, num: serial}
}

func formulaCell(formula string, result float64, style StyleID) Cell {
	return Cell{Type: CellTypeFormula, Style: style, str: formula, num: result}
}

func formulaStrCell(formula, result string, style StyleID) Cell {
	return Cell{Type: CellTypeFormula, Style: style, str: formula, res: result, text: true}
}

func sharedStringCell(index int, style StyleID) Cell {
	return Cell{Type: CellTypeSharedString, Style: style, sst: index}
}

func richStringCell(index int, style StyleID) Cell {
	return Cell{Type: CellTypeRichString, Style: style, sst: index}
}

func inlineStringCell(s string, style StyleID) Cell {
	return Cell{Type: CellTypeInlineString, Style: style, str: s}
}

func inlineRichStringCell(runs []RichRun, style StyleID) Cell {
	return Cell{Type: CellTypeInlineRichString, Style: style, runs: runs}
}

func errorCell(code string, style StyleID) Cell {
	return Cell{Type: CellTypeError, Style: style, str: code}
}

func blankCell(style StyleID) Cell {
	return Cell{Type: CellTypeBlank, Style: style}
}

func pictureCell(media int, style StyleID) Cell {
	return Cell{Type: CellTypePicture, Style: style, pic: media}
}

// Number returns the numeric payload of Number, Date, Bool and Formula
// cells.
func (c Cell) Number() float64 { return c.num }

// SharedIndex returns the shared string table index of SharedString and
// RichString cells.
func (c Cell) SharedIndex() int { return c.sst }
