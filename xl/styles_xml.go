package xl

import (
	"bytes"
	"strings"

	"github.com/adnsv/srw/xml"
)

func (w *partWriter) writeStyles(wb *Workbook) error {
	t := wb.styles.freeze()
	xfs := wb.styles.xfs

	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("styleSheet")
	x.Attr("xmlns", nsMain)

	if len(t.numFmts) > 0 {
		x.OTag("+numFmts").Attr("count", len(t.numFmts))
		for _, nf := range t.numFmts {
			x.OTag("+numFmt").Attr("numFmtId", nf.id).Attr("formatCode", nf.code).CTag()
		}
		x.CTag()
	}

	x.OTag("+fonts").Attr("count", len(t.fonts))
	for _, f := range t.fonts {
		writeFont(x, f, false)
	}
	x.CTag()

	x.OTag("+fills").Attr("count", len(t.fills))
	for _, f := range t.fills {
		writeFill(x, f)
	}
	x.CTag()

	x.OTag("+borders").Attr("count", len(t.borders))
	for _, b := range t.borders {
		writeBorder(x, b)
	}
	x.CTag()

	hasHyperlink := t.hyperlinkFont >= 0
	styleXfs := 1
	if hasHyperlink {
		styleXfs = 2
	}
	x.OTag("+cellStyleXfs").Attr("count", styleXfs)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	if hasHyperlink {
		x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", t.hyperlinkFont).Attr("fillId", 0).Attr("borderId", 0)
		x.Attr("applyNumberFormat", 0).Attr("applyFill", 0).Attr("applyBorder", 0)
		x.Attr("applyAlignment", 0).Attr("applyProtection", 0)
		x.OTag("+alignment").Attr("vertical", "top").CTag()
		x.OTag("+protection").Attr("locked", 0).CTag()
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(xfs))
	for i, f := range xfs {
		x.OTag("+xf")
		x.Attr("numFmtId", t.xfNumFmt[i])
		x.Attr("fontId", t.xfFont[i])
		x.Attr("fillId", t.xfFill[i])
		x.Attr("borderId", t.xfBorder[i])
		if f.Hyperlink {
			x.Attr("xfId", 1)
		} else {
			x.Attr("xfId", 0)
		}
		if t.xfNumFmt[i] > 0 {
			x.Attr("applyNumberFormat", 1)
		}
		if t.xfFont[i] > 0 && !f.Hyperlink {
			x.Attr("applyFont", 1)
		}
		if t.xfFill[i] > 0 {
			x.Attr("applyFill", 1)
		}
		if t.xfBorder[i] > 0 {
			x.Attr("applyBorder", 1)
		}
		if f.Alignment.applyAlignment() {
			x.Attr("applyAlignment", 1)
		}
		if !f.Protection.isDefault() || f.Hyperlink {
			x.Attr("applyProtection", 1)
		}
		if f.Alignment.hasAlignment() {
			writeAlignment(x, f.Alignment)
		}
		if !f.Protection.isDefault() {
			writeProtection(x, f.Protection)
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyles").Attr("count", styleXfs)
	if hasHyperlink {
		x.OTag("+cellStyle").Attr("name", "Hyperlink").Attr("xfId", 1).Attr("builtinId", 8).CTag()
	}
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.OTag("+dxfs").Attr("count", len(wb.styles.dxfs))
	for i, f := range wb.styles.dxfs {
		x.OTag("+dxf")
		if f.Font != (Font{}).canonical() {
			writeFont(x, f.Font, true)
		}
		if id := t.dxfNumFmt[i]; id > 0 {
			x.OTag("+numFmt").Attr("numFmtId", id).Attr("formatCode", numFmtCode(t, id)).CTag()
		}
		if f.Fill != (Fill{}) {
			writeDXFFill(x, f.Fill)
		}
		if f.Border != (Border{}) {
			writeBorder(x, f.Border)
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+tableStyles").Attr("count", 0)
	x.Attr("defaultTableStyle", "TableStyleMedium9")
	x.Attr("defaultPivotStyle", "PivotStyleLight16")
	x.CTag()

	x.CTag() // styleSheet

	return w.writePart(partStyles, bb.Bytes())
}

func numFmtCode(t *styleTables, id int) string {
	for _, nf := range t.numFmts {
		if nf.id == id {
			return nf.code
		}
	}
	for code, bid := range builtinNumFormats {
		if bid == id {
			return code
		}
	}
	return "General"
}

// writeFont writes a font element. Differential fonts only carry the
// properties that override the cell font.
func writeFont(x *xml.Writer, f Font, dxf bool) {
	x.OTag("+font")
	if f.Bold {
		x.OTag("b").CTag()
	}
	if f.Italic {
		x.OTag("i").CTag()
	}
	if f.Strikethrough {
		x.OTag("strike").CTag()
	}
	if f.Outline {
		x.OTag("outline").CTag()
	}
	if f.Shadow {
		x.OTag("shadow").CTag()
	}
	switch f.Underline {
	case UnderlineNone:
	case UnderlineSingle:
		x.OTag("u").CTag()
	default:
		x.OTag("u").Attr("val", string(f.Underline)).CTag()
	}
	switch f.Script {
	case ScriptSuperscript:
		x.OTag("vertAlign").Attr("val", "superscript").CTag()
	case ScriptSubscript:
		x.OTag("vertAlign").Attr("val", "subscript").CTag()
	}

	if dxf {
		if f.Color != "" {
			x.OTag("color").Attr("rgb", f.Color.argb()).CTag()
		}
		x.CTag()
		return
	}

	x.OTag("sz").Attr("val", formatNumber(f.Size)).CTag()
	switch {
	case f.Color != "":
		x.OTag("color").Attr("rgb", f.Color.argb()).CTag()
	case f.Theme != 0:
		x.OTag("color").Attr("theme", f.Theme).CTag()
	default:
		x.OTag("color").Attr("theme", defaultFontTheme).CTag()
	}
	x.OTag("name").Attr("val", f.Name).CTag()
	x.OTag("family").Attr("val", f.Family).CTag()
	if f.Charset != 0 {
		x.OTag("charset").Attr("val", f.Charset).CTag()
	}
	if f.Scheme != "" && f.Scheme != "none" {
		x.OTag("scheme").Attr("val", f.Scheme).CTag()
	}
	x.CTag()
}

func writeFill(x *xml.Writer, f Fill) {
	x.OTag("+fill")
	x.OTag("patternFill").Attr("patternType", f.Pattern.String())
	if f.Pattern != PatternNone && f.Pattern != PatternGray125 || f.FgColor != "" || f.BgColor != "" {
		if f.FgColor != "" {
			x.OTag("fgColor").Attr("rgb", f.FgColor.argb()).CTag()
		}
		if f.BgColor != "" {
			x.OTag("bgColor").Attr("rgb", f.BgColor.argb()).CTag()
		} else {
			x.OTag("bgColor").Attr("indexed", 64).CTag()
		}
	}
	x.CTag() // patternFill
	x.CTag() // fill
}

// writeDXFFill writes a differential fill. Excel reads the color of a
// solid differential fill from bgColor.
func writeDXFFill(x *xml.Writer, f Fill) {
	x.OTag("+fill")
	x.OTag("patternFill")
	if f.Pattern != PatternSolid {
		x.Attr("patternType", f.Pattern.String())
	}
	if f.Pattern == PatternSolid {
		if f.FgColor != "" {
			x.OTag("bgColor").Attr("rgb", f.FgColor.argb()).CTag()
		}
	} else {
		if f.FgColor != "" {
			x.OTag("fgColor").Attr("rgb", f.FgColor.argb()).CTag()
		}
		if f.BgColor != "" {
			x.OTag("bgColor").Attr("rgb", f.BgColor.argb()).CTag()
		}
	}
	x.CTag()
	x.CTag()
}

func writeBorder(x *xml.Writer, b Border) {
	x.OTag("+border")
	switch b.DiagonalType {
	case DiagonalUp:
		x.Attr("diagonalUp", 1)
	case DiagonalDown:
		x.Attr("diagonalDown", 1)
	case DiagonalUpDown:
		x.Attr("diagonalUp", 1).Attr("diagonalDown", 1)
	}

	x.OTag("left")
	writeBorderSide(x, b.Left, b.LeftColor)
	x.CTag()
	x.OTag("right")
	writeBorderSide(x, b.Right, b.RightColor)
	x.CTag()
	x.OTag("top")
	writeBorderSide(x, b.Top, b.TopColor)
	x.CTag()
	x.OTag("bottom")
	writeBorderSide(x, b.Bottom, b.BottomColor)
	x.CTag()
	x.OTag("diagonal")
	writeBorderSide(x, b.Diagonal, b.DiagColor)
	x.CTag()

	x.CTag()
}

// writeBorderSide fills in the currently open side element.
func writeBorderSide(x *xml.Writer, style BorderStyle, color Color) {
	if style == BorderNone {
		return
	}
	x.Attr("style", style.String())
	if color != "" {
		x.OTag("color").Attr("rgb", color.argb()).CTag()
	} else {
		x.OTag("color").Attr("auto", 1).CTag()
	}
}

func writeAlignment(x *xml.Writer, a Alignment) {
	x.OTag("alignment")
	if a.Horizontal != AlignGeneral {
		x.Attr("horizontal", string(a.Horizontal))
	}
	if a.JustifyLast {
		x.Attr("justifyLastLine", 1)
	}
	if a.Vertical != VAlignBottom {
		x.Attr("vertical", string(a.Vertical))
	}
	if a.Indent != 0 {
		x.Attr("indent", a.Indent)
	}
	if r := a.Rotation; r != 0 {
		switch {
		case r == 270:
			r = 255
		case r < 0:
			r = -r + 90
		}
		x.Attr("textRotation", r)
	}
	if a.WrapText {
		x.Attr("wrapText", 1)
	}
	if a.ShrinkToFit {
		x.Attr("shrinkToFit", 1)
	}
	if a.ReadingOrder == 1 || a.ReadingOrder == 2 {
		x.Attr("readingOrder", a.ReadingOrder)
	}
	x.CTag()
}

func writeProtection(x *xml.Writer, p Protection) {
	x.OTag("protection")
	if p.Unlocked {
		x.Attr("locked", 0)
	}
	if p.Hidden {
		x.Attr("hidden", 1)
	}
	x.CTag()
}

// needsSpacePreserve reports whether s has whitespace that an XML reader
// would otherwise be free to drop.
func needsSpacePreserve(s string) bool {
	return s != "" && (strings.TrimSpace(s[:1]) == "" || strings.TrimSpace(s[len(s)-1:]) == "")
}
