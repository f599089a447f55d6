package xl

import "fmt"

// styleRegistry deduplicates cell formats. Cell formats (xf records) and
// differential formats (dxf records, used by conditional formatting) are
// kept in separate index spaces.
type styleRegistry struct {
	xfs     []Format
	xfIndex map[Format]StyleID

	dxfs     []Format
	dxfIndex map[Format]int

	frozen bool
	tables *styleTables
}

// styleTables are the sub-tables of styles.xml. They are derived once,
// when the registry is frozen.
type styleTables struct {
	fonts   []Font
	fills   []Fill
	borders []Border
	numFmts []numFmt

	xfFont    []int
	xfFill    []int
	xfBorder  []int
	xfNumFmt  []int
	dxfNumFmt []int

	hyperlinkFont int // font id of the hyperlink cell style, -1 if unused
}

type numFmt struct {
	id   int
	code string
}

func newStyleRegistry() *styleRegistry {
	r := &styleRegistry{
		xfIndex:  map[Format]StyleID{},
		dxfIndex: map[Format]int{},
	}
	r.register(Format{})
	return r
}

func (r *styleRegistry) register(f Format) (StyleID, error) {
	if r.frozen {
		return 0, ErrFinalized
	}
	key := f.canonical()
	if id, ok := r.xfIndex[key]; ok {
		return id, nil
	}
	id := StyleID(len(r.xfs))
	r.xfs = append(r.xfs, key)
	r.xfIndex[key] = id
	return id, nil
}

func (r *styleRegistry) registerDXF(f Format) (int, error) {
	if r.frozen {
		return 0, ErrFinalized
	}
	key := f.canonical()
	if id, ok := r.dxfIndex[key]; ok {
		return id, nil
	}
	id := len(r.dxfs)
	r.dxfs = append(r.dxfs, key)
	r.dxfIndex[key] = id
	return id, nil
}

func (r *styleRegistry) format(id StyleID) (Format, error) {
	if id < 0 || int(id) >= len(r.xfs) {
		return Format{}, fmt.Errorf("%w: %d", ErrStyle, id)
	}
	return r.xfs[id], nil
}

func (r *styleRegistry) valid(id StyleID) bool {
	return id >= 0 && int(id) < len(r.xfs)
}

// freeze stops registration and numbers the font, fill, border and number
// format sub-tables in first-seen order over the xf list.
func (r *styleRegistry) freeze() *styleTables {
	if r.frozen {
		return r.tables
	}
	r.frozen = true

	t := &styleTables{hyperlinkFont: -1}
	n := len(r.xfs)
	t.xfFont = make([]int, n)
	t.xfFill = make([]int, n)
	t.xfBorder = make([]int, n)
	t.xfNumFmt = make([]int, n)

	fonts := map[Font]int{}
	fills := map[Fill]int{
		{Pattern: PatternNone}:    0,
		{Pattern: PatternGray125}: 1,
	}
	t.fills = []Fill{{Pattern: PatternNone}, {Pattern: PatternGray125}}
	borders := map[Border]int{}
	codes := map[string]int{}
	nextNumFmt := firstCustomNumFmtID

	numFmtID := func(f Format) int {
		if f.NumFormat == "" {
			return f.NumFormatID
		}
		if id, ok := codes[f.NumFormat]; ok {
			return id
		}
		id := nextNumFmt
		nextNumFmt++
		codes[f.NumFormat] = id
		t.numFmts = append(t.numFmts, numFmt{id: id, code: f.NumFormat})
		return id
	}

	for i, f := range r.xfs {
		id, ok := fonts[f.Font]
		if !ok {
			id = len(t.fonts)
			fonts[f.Font] = id
			t.fonts = append(t.fonts, f.Font)
		}
		t.xfFont[i] = id
		if f.Hyperlink && t.hyperlinkFont < 0 {
			t.hyperlinkFont = id
		}

		id, ok = fills[f.Fill]
		if !ok {
			id = len(t.fills)
			fills[f.Fill] = id
			t.fills = append(t.fills, f.Fill)
		}
		t.xfFill[i] = id

		id, ok = borders[f.Border]
		if !ok {
			id = len(t.borders)
			borders[f.Border] = id
			t.borders = append(t.borders, f.Border)
		}
		t.xfBorder[i] = id

		t.xfNumFmt[i] = numFmtID(f)
	}

	t.dxfNumFmt = make([]int, len(r.dxfs))
	for i, f := range r.dxfs {
		t.dxfNumFmt[i] = numFmtID(f)
	}

	r.tables = t
	return t
}

// defaultHyperlinkFormat is the format Excel applies to the built-in
// Hyperlink cell style.
var defaultHyperlinkFormat = Format{
	Font: Font{
		Underline: UnderlineSingle,
		Theme:     10,
		Scheme:    "none",
	},
	Hyperlink: true,
}
