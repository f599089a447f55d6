package xl

import (
	"bytes"
	"fmt"
	"io"

	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"
)

// sheetDataMarker stands in for the rows while the rest of the worksheet
// is rendered. The rows are spliced in when the part is streamed out.
const sheetDataMarker = "xlsxwriterSheetData7f3c9b2e"

// renderRow writes one <row> element with its cells.
func (sh *Sheet) renderRow(b *bytebufferpool.ByteBuffer, r *rowData, spans string) {
	x := newFragmentWriter(b)

	x.OTag("+row").Attr("r", r.num+1)
	if spans != "" {
		x.Attr("spans", spans)
	}
	if o := r.opts; o != nil {
		if o.Style != 0 {
			x.Attr("s", int(o.Style))
			x.Attr("customFormat", 1)
		}
		if o.customHeight() {
			x.Attr("ht", formatNumber(o.Height))
		}
		if o.Hidden {
			x.Attr("hidden", 1)
		}
		if o.customHeight() {
			x.Attr("customHeight", 1)
		}
		if o.Level > 0 {
			x.Attr("outlineLevel", o.Level)
		}
		if o.Collapsed {
			x.Attr("collapsed", 1)
		}
	}

	rowStyle := r.style()
	for _, e := range r.cells {
		sh.renderCell(x, r.num, e.col, e.cell, rowStyle)
	}
	x.CTag()
}

// renderCell writes a <c> element. A cell without a format of its own
// takes the row format, then the column format.
func (sh *Sheet) renderCell(x *xml.Writer, row, col int, c Cell, rowStyle StyleID) {
	x.OTag("+c").Attr("r", RowColToCellName(row, col))

	style := c.Style
	if style == 0 {
		style = rowStyle
	}
	if style == 0 {
		style = sh.columnStyle(col)
	}
	if style != 0 {
		x.Attr("s", int(style))
	}

	switch c.Type {
	case CellTypeNumber, CellTypeDate:
		x.OTag("v").Write(formatNumber(c.num)).CTag()
	case CellTypeBool:
		x.Attr("t", "b")
		x.OTag("v").Write(int(c.num)).CTag()
	case CellTypeSharedString, CellTypeRichString:
		x.Attr("t", "s")
		x.OTag("v").Write(c.sst).CTag()
	case CellTypeInlineString:
		x.Attr("t", "inlineStr")
		x.OTag("is")
		writeT(x, c.str)
		x.CTag()
	case CellTypeInlineRichString:
		x.Attr("t", "inlineStr")
		x.OTag("is")
		writeRuns(x, c.runs)
		x.CTag()
	case CellTypeFormula:
		if c.text {
			x.Attr("t", "str")
		}
		x.OTag("f").Write(c.str).CTag()
		if c.text {
			x.OTag("v").Write(c.res).CTag()
		} else {
			x.OTag("v").Write(formatNumber(c.num)).CTag()
		}
	case CellTypeError:
		x.Attr("t", "e")
		x.OTag("v").Write(c.str).CTag()
	case CellTypePicture:
		x.Attr("t", "e").Attr("vm", c.pic+1)
		x.OTag("v").Write("#VALUE!").CTag()
	case CellTypeBlank:
	}
	x.CTag() // c
}

// writeSheet renders the worksheet around a placeholder and streams it to
// storage with the serialized rows in place of the placeholder. It returns
// the workbook relationship id of the part.
func (w *partWriter) writeSheet(sh *Sheet, p partInfo) (string, error) {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("worksheet")
	x.Attr("xmlns", nsMain)
	x.Attr("xmlns:r", nsRel)

	x.OTag("+dimension").Attr("ref", sh.dim.ref()).CTag()

	x.OTag("+sheetViews")
	x.OTag("+sheetView")
	if sh.index == 0 {
		x.Attr("tabSelected", 1)
	}
	x.Attr("workbookViewId", 0)
	x.CTag()
	x.CTag()

	x.OTag("+sheetFormatPr").Attr("defaultRowHeight", DefaultRowHeight).CTag()

	if segs := sh.colSegments(); len(segs) > 0 {
		x.OTag("+cols")
		for _, c := range segs {
			writeCol(x, c)
		}
		x.CTag()
	}

	x.OTag("+sheetData")
	x.Write(sheetDataMarker)
	x.CTag()

	if len(sh.conds) > 0 {
		writeConditionalFormats(x, sh.conds)
	}

	rels := map[string]relInfo{}
	if len(sh.links) > 0 {
		x.OTag("+hyperlinks")
		for _, h := range sh.links {
			x.OTag("+hyperlink").Attr("ref", RowColToCellName(h.row, h.col))
			if h.external() {
				rid := fmt.Sprintf("rId%d", len(rels)+1)
				rels[rid] = relInfo{Type: relHyperlink, Target: h.target, TargetMode: "External"}
				x.Attr("r:id", rid)
				if h.location != "" {
					x.Attr("location", h.location)
				}
			} else {
				x.Attr("location", h.location)
			}
			if h.tooltip != "" {
				x.Attr("tooltip", h.tooltip)
			}
			if !h.external() && h.display != "" {
				x.Attr("display", h.display)
			}
			x.CTag()
		}
		x.CTag()
	}

	x.OTag("+pageMargins")
	x.Attr("left", "0.7").Attr("right", "0.7")
	x.Attr("top", "0.75").Attr("bottom", "0.75")
	x.Attr("header", "0.3").Attr("footer", "0.3")
	x.CTag()

	x.CTag() // worksheet

	head, tail, ok := cutMarker(bb.Bytes(), sheetDataMarker)
	if !ok {
		return "", fmt.Errorf("%s: sheet data placeholder missing", sh.Name)
	}
	rows, err := sh.store.reader()
	if err != nil {
		return "", fmt.Errorf("%s: %w", sh.Name, err)
	}

	rid := w.register(p)
	err = w.out.WriteStream(p.path, io.MultiReader(bytes.NewReader(head), rows, bytes.NewReader(tail)))
	if err != nil {
		return "", fmt.Errorf("%s: %w", sh.Name, err)
	}

	if len(rels) > 0 {
		if err := w.writeRels(relsPath(p.path), rels); err != nil {
			return "", err
		}
	}
	return rid, nil
}

func writeCol(x *xml.Writer, c colRange) {
	o := c.opts
	width := o.Width
	custom := true
	if width == DefaultColumnWidth {
		if o.Hidden {
			width = 0
		} else {
			custom = false
		}
	}

	x.OTag("+col")
	x.Attr("min", c.first+1)
	x.Attr("max", c.last+1)
	x.Attr("width", formatNumber(columnWidth(width)))
	if o.Style != 0 {
		x.Attr("style", int(o.Style))
	}
	if o.Hidden {
		x.Attr("hidden", 1)
	}
	if custom {
		x.Attr("customWidth", 1)
	}
	if o.Level > 0 {
		x.Attr("outlineLevel", o.Level)
	}
	if o.Collapsed {
		x.Attr("collapsed", 1)
	}
	x.CTag()
}
