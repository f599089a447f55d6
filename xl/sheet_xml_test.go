package xl

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, 9.140625, columnWidth(DefaultColumnWidth))
	assert.Equal(t, 20.7109375, columnWidth(20))
	assert.Equal(t, 0.0, columnWidth(0))
}

func TestColumnOverrides(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	bold, err := wb.AddFormat(Format{Font: Font{Bold: true}})
	require.NoError(t, err)

	require.NoError(t, sh.SetColumnWidth(0, 4, 20))
	require.NoError(t, sh.SetColumn(2, 2, ColOptions{Width: 20, Style: bold}))
	require.NoError(t, sh.SetColumn(6, 5, ColOptions{Hidden: true}))
	assert.ErrorIs(t, sh.SetColumn(0, MaxCols, ColOptions{}), ErrOutOfRange)
	assert.ErrorIs(t, sh.SetColumnWidth(0, 0, 300), ErrOutOfRange)

	assert.Equal(t, bold, sh.columnStyle(2))
	assert.Equal(t, StyleID(0), sh.columnStyle(3))

	parts := packageParts(t, wb)
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	require.Len(t, ws.Cols, 4)

	assert.Equal(t, xCol{Min: 1, Max: 2, Width: 20.7109375, CustomWidth: 1}, ws.Cols[0])
	assert.Equal(t, xCol{Min: 3, Max: 3, Width: 20.7109375, Style: int(bold), CustomWidth: 1}, ws.Cols[1])
	assert.Equal(t, xCol{Min: 4, Max: 5, Width: 20.7109375, CustomWidth: 1}, ws.Cols[2])
	assert.Equal(t, xCol{Min: 6, Max: 7, Width: 0, Hidden: 1, CustomWidth: 1}, ws.Cols[3])

	// a styled or hidden column counts as used
	assert.Equal(t, "C1:G1", ws.Dimension.Ref)
}

func TestStyleFallback(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	colStyle, err := wb.AddFormat(Format{Font: Font{Italic: true}})
	require.NoError(t, err)
	rowStyle, err := wb.AddFormat(Format{Font: Font{Bold: true}})
	require.NoError(t, err)
	cellStyle, err := wb.AddFormat(Format{NumFormat: "0.00"})
	require.NoError(t, err)

	require.NoError(t, sh.SetColumn(1, 1, ColOptions{Style: colStyle}))
	require.NoError(t, sh.SetRow(1, RowOptions{Style: rowStyle}))
	require.NoError(t, sh.WriteNumber(0, 1, 1, 0))
	require.NoError(t, sh.WriteNumber(1, 1, 2, 0))
	require.NoError(t, sh.WriteNumber(1, 2, 3, cellStyle))

	parts := packageParts(t, wb)
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	require.Len(t, ws.Rows, 2)
	assert.Equal(t, int(colStyle), ws.Rows[0].Cells[0].S)
	assert.Equal(t, int(rowStyle), ws.Rows[1].S)
	assert.Equal(t, int(rowStyle), ws.Rows[1].Cells[0].S)
	assert.Equal(t, int(cellStyle), ws.Rows[1].Cells[1].S)
}

func TestRowOptions(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("")
	require.NoError(t, err)

	require.NoError(t, sh.SetRow(2, RowOptions{Height: 30, Level: 2, Hidden: true}))
	require.NoError(t, sh.SetRow(4, RowOptions{Height: DefaultRowHeight}))
	assert.ErrorIs(t, sh.SetRow(5, RowOptions{Height: 500}), ErrOutOfRange)
	assert.ErrorIs(t, sh.SetRow(5, RowOptions{Level: 8}), ErrOutOfRange)

	parts := packageParts(t, wb)
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	require.Len(t, ws.Rows, 2)

	r := ws.Rows[0]
	assert.Equal(t, 3, r.R)
	assert.Equal(t, "", r.Spans)
	assert.Equal(t, 30.0, r.Ht)
	assert.Equal(t, 1, r.CustomHeight)
	assert.Equal(t, 1, r.Hidden)
	assert.Equal(t, 2, r.OutlineLevel)

	assert.Equal(t, 5, ws.Rows[1].R)
	assert.Equal(t, 0, ws.Rows[1].CustomHeight)

	assert.Equal(t, "A3:A5", ws.Dimension.Ref)
}

func TestSpansPerBlock(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	require.NoError(t, sh.WriteNumber(0, 2, 1, 0))
	require.NoError(t, sh.WriteNumber(15, 5, 1, 0))
	require.NoError(t, sh.WriteNumber(16, 0, 1, 0))

	parts := packageParts(t, wb)
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	require.Len(t, ws.Rows, 3)
	assert.Equal(t, "3:6", ws.Rows[0].Spans)
	assert.Equal(t, "3:6", ws.Rows[1].Spans)
	assert.Equal(t, "1:1", ws.Rows[2].Spans)
}

func TestRichStrings(t *testing.T) {
	runs := []RichRun{{Text: "This is "}, {Font: Font{Bold: true}, Text: "bold"}}

	wb := NewWorkbook()
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	require.NoError(t, sh.WriteRichString(0, 0, runs, 0))
	require.NoError(t, sh.WriteRichString(1, 0, runs, 0))

	parts := packageParts(t, wb)
	sst := decodePart[xSST](t, parts, "xl/sharedStrings.xml")
	assert.Equal(t, 1, sst.UniqueCount)
	require.Len(t, sst.Items, 1)
	assert.Equal(t, []string{"This is ", "bold"}, sst.Items[0].Runs)

	wb = NewWorkbook(Options{ConstantMemory: true, TmpDir: t.TempDir()})
	sh, err = wb.AddSheet("")
	require.NoError(t, err)
	require.NoError(t, sh.WriteRichString(0, 0, runs, 0))

	parts = packageParts(t, wb)
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	c := ws.Rows[0].Cells[0]
	assert.Equal(t, "inlineStr", c.T)
	assert.Equal(t, []string{"This is ", "bold"}, c.Runs)
}

func TestHyperlinks(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("Links")
	require.NoError(t, err)

	require.NoError(t, sh.WriteURL(0, 0, Hyperlink{URL: "https://example.com/a b"}, 0))
	require.NoError(t, sh.WriteURL(1, 0, Hyperlink{URL: "internal:Links!B5", Text: "Jump", Tooltip: "go"}, 0))
	require.NoError(t, sh.WriteURL(2, 0, Hyperlink{URL: `external:c:\reports\q1.xlsx#Summary!A1`}, 0))
	require.NoError(t, sh.WriteURL(3, 0, Hyperlink{URL: "https://old.example.com"}, 0))
	require.NoError(t, sh.WriteURL(3, 0, Hyperlink{URL: "https://new.example.com"}, 0))

	assert.ErrorIs(t, sh.WriteURL(4, 0, Hyperlink{URL: "gopher://x"}, 0), ErrURL)
	assert.ErrorIs(t, sh.WriteURL(4, 0, Hyperlink{URL: "https://x", Tooltip: string(make([]byte, 300))}, 0), ErrURL)

	style, err := wb.HyperlinkStyle()
	require.NoError(t, err)
	c, ok := sh.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, style, c.Style)

	parts := packageParts(t, wb)
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	require.Len(t, ws.Links, 4)

	assert.Equal(t, "A1", ws.Links[0].Ref)
	assert.NotEmpty(t, ws.Links[0].ID)
	assert.Equal(t, "Links!B5", ws.Links[1].Location)
	assert.Equal(t, "Jump", ws.Links[1].Display)
	assert.Equal(t, "go", ws.Links[1].Tooltip)
	assert.Empty(t, ws.Links[1].ID)
	assert.Equal(t, "Summary!A1", ws.Links[2].Location)

	rels := decodePart[xRels](t, parts, "xl/worksheets/_rels/sheet1.xml.rels")
	targets := map[string]string{}
	for _, r := range rels.Rels {
		assert.Equal(t, "External", r.TargetMode)
		assert.Equal(t, relHyperlink, r.Type)
		targets[r.ID] = r.Target
	}
	assert.Equal(t, "https://example.com/a%20b", targets[ws.Links[0].ID])
	assert.Equal(t, "file:///c:/reports/q1.xlsx", targets[ws.Links[2].ID])
	assert.Equal(t, "https://new.example.com", targets[ws.Links[3].ID])

	sst := decodePart[xSST](t, parts, "xl/sharedStrings.xml")
	assert.Equal(t, "https://example.com/a b", sst.Items[0].T)
}

func TestConditionalFormats(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	red := Format{Font: Font{Color: ColorRed}}

	require.NoError(t, sh.ConditionalFormat("B2:B10", ConditionalFormat{
		Type: CondCellIs, Operator: CondGreaterThan, Value: "5", Format: red,
	}))
	require.NoError(t, sh.ConditionalFormat("B10:B2", ConditionalFormat{
		Type: CondCellIs, Operator: CondBetween, MinValue: "1", MaxValue: "=3", Format: red,
	}))
	require.NoError(t, sh.ConditionalFormat("C1:C5", ConditionalFormat{
		Type: CondBlanks, Format: Format{Fill: Fill{BgColor: ColorYellow}},
	}))

	assert.ErrorIs(t, sh.ConditionalFormat("A1", ConditionalFormat{Type: CondCellIs, Operator: CondBetween, MinValue: "1"}), ErrValue)
	assert.ErrorIs(t, sh.ConditionalFormat("A1", ConditionalFormat{Type: CondCellIs, Operator: "near", Value: "1"}), ErrValue)
	assert.ErrorIs(t, sh.ConditionalFormat("A1", ConditionalFormat{Type: CondExpression}), ErrValue)
	assert.Error(t, sh.ConditionalFormat("nope", ConditionalFormat{Type: CondDuplicate}))

	// conditional formats do not allocate cell formats
	assert.Len(t, wb.styles.xfs, 1)
	assert.Len(t, wb.styles.dxfs, 2)

	parts := packageParts(t, wb)
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	require.Len(t, ws.Conds, 2)

	b := ws.Conds[0]
	assert.Equal(t, "B2:B10", b.Sqref)
	require.Len(t, b.Rules, 2)
	assert.Equal(t, "cellIs", b.Rules[0].Type)
	assert.Equal(t, "greaterThan", b.Rules[0].Operator)
	assert.Equal(t, []string{"5"}, b.Rules[0].Formulas)
	assert.Equal(t, 1, b.Rules[0].Priority)
	assert.Equal(t, []string{"1", "3"}, b.Rules[1].Formulas)
	assert.Equal(t, 2, b.Rules[1].Priority)
	assert.Equal(t, b.Rules[0].DxfID, b.Rules[1].DxfID)

	c := ws.Conds[1]
	assert.Equal(t, "C1:C5", c.Sqref)
	require.Len(t, c.Rules, 1)
	assert.Equal(t, "containsBlanks", c.Rules[0].Type)
	assert.Equal(t, 1, c.Rules[0].DxfID)
	assert.Equal(t, []string{"LEN(TRIM(C1))=0"}, c.Rules[0].Formulas)
}

func TestFutureFunctionsInCells(t *testing.T) {
	wb := NewWorkbook(Options{FutureFunctions: true})
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	require.NoError(t, sh.WriteFormula(0, 0, "=TEXTJOIN(\",\",TRUE,B1:B3)", 0))

	c, ok := sh.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, CellTypeFormula, c.Type)

	parts := packageParts(t, wb)
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	assert.Equal(t, `_xlfn.TEXTJOIN(",",TRUE,B1:B3)`, ws.Rows[0].Cells[0].F)
}

func TestWriteValue(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("")
	require.NoError(t, err)

	values := []any{"s", []byte("b"), true, 7, int64(8), uint8(9), float32(1.5), 2.5, nil}
	for col, v := range values {
		require.NoError(t, sh.WriteValue(0, col, v, 0), "%T", v)
	}
	want := []CellType{
		CellTypeSharedString, CellTypeSharedString, CellTypeBool, CellTypeNumber,
		CellTypeNumber, CellTypeNumber, CellTypeNumber, CellTypeNumber,
	}
	for col, typ := range want {
		c, ok := sh.Cell(0, col)
		require.True(t, ok)
		assert.Equal(t, typ, c.Type, "col %d", col)
	}
	// nil without a style writes nothing
	_, ok := sh.Cell(0, 8)
	assert.False(t, ok)
}

func TestFormulaResults(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	require.NoError(t, sh.WriteFormulaStr(0, 0, `=IF(B1,"yes","")`, "", 0))
	require.NoError(t, sh.WriteFormulaStr(0, 1, `=IF(B1,"yes","")`, "yes", 0))
	require.NoError(t, sh.WriteFormulaNum(0, 2, "=B1*2", 0, 0))

	parts := packageParts(t, wb)
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	cells := ws.Rows[0].Cells
	require.Len(t, cells, 3)
	assert.Equal(t, "str", cells[0].T)
	assert.Equal(t, "", cells[0].V)
	assert.Equal(t, "str", cells[1].T)
	assert.Equal(t, "yes", cells[1].V)
	assert.Equal(t, "", cells[2].T)
	assert.Equal(t, "0", cells[2].V)
}

func TestLineBreaks(t *testing.T) {
	for _, constantMemory := range []bool{false, true} {
		wb := NewWorkbook(Options{ConstantMemory: constantMemory, TmpDir: t.TempDir()})
		sh, err := wb.AddSheet("")
		require.NoError(t, err)
		require.NoError(t, sh.WriteString(0, 0, "a\r\nb", 0))
		require.NoError(t, sh.WriteString(0, 1, "c\rnd", 0))

		parts := packageParts(t, wb)
		ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
		cells := ws.Rows[0].Cells
		require.Len(t, cells, 2)
		if constantMemory {
			assert.Equal(t, "a\nb", cells[0].Inline)
			assert.Equal(t, "c\nnd", cells[1].Inline)
			continue
		}
		sst := decodePart[xSST](t, parts, "xl/sharedStrings.xml")
		require.Len(t, sst.Items, 2)
		assert.Equal(t, "a\nb", sst.Items[0].T)
		assert.Equal(t, "c\nnd", sst.Items[1].T)
	}
}

func TestControlCharacters(t *testing.T) {
	wb := NewWorkbook(Options{Properties: DocProperties{
		Title:   "a\x01b",
		Author:  "c\x0bd",
		Company: "e\x0cf",
	}})
	_, err := wb.AddSheet("bad\x01name")
	assert.ErrorIs(t, err, ErrSheetName)
	_, err = wb.AddSheet("tab\tname")
	assert.ErrorIs(t, err, ErrSheetName)

	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	require.NoError(t, sh.ConditionalFormat("A1:A5", ConditionalFormat{
		Type: CondCellIs, Operator: CondEqual, Value: "\"x\x0by\"",
		Format: Format{Font: Font{Bold: true}},
	}))
	require.NoError(t, sh.WriteURL(0, 1, Hyperlink{URL: "https://example.com/", Text: "go\x02", Tooltip: "t\x03"}, 0))
	assert.ErrorIs(t, sh.WriteURL(1, 1, Hyperlink{URL: "https://example.com/\x01"}, 0), ErrURL)
	require.NoError(t, wb.DefineName("Label", "=\"a\x1fb\""))

	parts := packageParts(t, wb)
	for name, b := range parts {
		if strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels") {
			assert.NoError(t, wellFormed(b), name)
		}
	}
	assert.Contains(t, string(parts["docProps/core.xml"]), "<dc:title>ab</dc:title>")
	ws := decodePart[xWorksheet](t, parts, "xl/worksheets/sheet1.xml")
	require.Len(t, ws.Conds, 1)
	assert.Equal(t, []string{`"xy"`}, ws.Conds[0].Rules[0].Formulas)
	require.Len(t, ws.Links, 1)
	assert.Equal(t, "t", ws.Links[0].Tooltip)
	book := decodePart[xWorkbook](t, parts, "xl/workbook.xml")
	require.Len(t, book.Names, 1)
	assert.Equal(t, `"ab"`, book.Names[0].Formula)
}

// wellFormed runs the whole document through a strict decoder.
func wellFormed(b []byte) error {
	d := xml.NewDecoder(bytes.NewReader(b))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
