package xl

import (
	"bytes"

	"github.com/adnsv/srw/xml"
)

const nsDrawing = "http://schemas.openxmlformats.org/drawingml/2006/main"

var partTheme = partInfo{"/xl/theme/theme1.xml", "application/vnd.openxmlformats-officedocument.theme+xml", nsRel + "/theme", scopeWorkbook}

// themeColors is the Office color scheme in clrScheme order. The first two
// entries are system colors.
var themeColors = []struct {
	name xml.NameString
	rgb  string
}{
	{"dk1", "000000"},
	{"lt1", "FFFFFF"},
	{"dk2", "1F497D"},
	{"lt2", "EEECE1"},
	{"accent1", "4F81BD"},
	{"accent2", "C0504D"},
	{"accent3", "9BBB59"},
	{"accent4", "8064A2"},
	{"accent5", "4BACC6"},
	{"accent6", "F79646"},
	{"hlink", "0000FF"},
	{"folHlink", "800080"},
}

// writeTheme writes the default Office theme that font theme colors and
// the minor font scheme refer to.
func (w *partWriter) writeTheme() error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("a:theme")
	x.Attr("xmlns:a", nsDrawing)
	x.Attr("name", "Office Theme")
	x.OTag("+a:themeElements")

	x.OTag("+a:clrScheme").Attr("name", "Office")
	for i, c := range themeColors {
		x.OTag("+a:" + c.name)
		switch i {
		case 0:
			x.OTag("a:sysClr").Attr("val", "windowText").Attr("lastClr", c.rgb).CTag()
		case 1:
			x.OTag("a:sysClr").Attr("val", "window").Attr("lastClr", c.rgb).CTag()
		default:
			x.OTag("a:srgbClr").Attr("val", c.rgb).CTag()
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+a:fontScheme").Attr("name", "Office")
	writeThemeFonts(x, "a:majorFont", "Cambria")
	writeThemeFonts(x, "a:minorFont", defaultFontName)
	x.CTag()

	x.OTag("+a:fmtScheme").Attr("name", "Office")
	x.OTag("+a:fillStyleLst")
	writeThemeFill(x, "", "")
	writeThemeFill(x, "a:tint", "50000")
	writeThemeFill(x, "a:shade", "95000")
	x.CTag()
	x.OTag("+a:lnStyleLst")
	for _, width := range []int{9525, 25400, 38100} {
		x.OTag("+a:ln").Attr("w", width).Attr("cap", "flat").Attr("cmpd", "sng").Attr("algn", "ctr")
		writeThemeFill(x, "a:shade", "95000")
		x.OTag("a:prstDash").Attr("val", "solid").CTag()
		x.CTag()
	}
	x.CTag()
	x.OTag("+a:effectStyleLst")
	for range 3 {
		x.OTag("+a:effectStyle").OTag("a:effectLst").CTag().CTag()
	}
	x.CTag()
	x.OTag("+a:bgFillStyleLst")
	writeThemeFill(x, "", "")
	writeThemeFill(x, "a:tint", "40000")
	writeThemeFill(x, "a:shade", "80000")
	x.CTag()
	x.CTag()

	x.CTag() // themeElements
	x.OTag("+a:objectDefaults").CTag()
	x.OTag("+a:extraClrSchemeLst").CTag()
	x.CTag()

	return w.writePart(partTheme, bb.Bytes())
}

func writeThemeFonts(x *xml.Writer, tag xml.NameString, latin string) {
	x.OTag("+" + tag)
	x.OTag("+a:latin").Attr("typeface", latin).CTag()
	x.OTag("+a:ea").Attr("typeface", "").CTag()
	x.OTag("+a:cs").Attr("typeface", "").CTag()
	x.CTag()
}

// writeThemeFill writes a solid placeholder fill, optionally with one
// color transform such as a:tint.
func writeThemeFill(x *xml.Writer, transform xml.NameString, val string) {
	x.OTag("+a:solidFill")
	x.OTag("a:schemeClr").Attr("val", "phClr")
	if transform != "" {
		x.OTag(transform).Attr("val", val).CTag()
	}
	x.CTag()
	x.CTag()
}
