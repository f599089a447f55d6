package xl

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/adnsv/srw/xml"
)

const (
	nsMain    = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRel     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT      = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRich    = "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata"

	relOfficeDoc     = nsRel + "/officeDocument"
	relWorksheet     = nsRel + "/worksheet"
	relStyles        = nsRel + "/styles"
	relSharedStrings = nsRel + "/sharedStrings"
	relHyperlink     = nsRel + "/hyperlink"
	relImage         = nsRel + "/image"
	relMetadata      = nsRel + "/sheetMetadata"
	relExtProps      = nsRel + "/extended-properties"
	relCoreProps     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relRichValueRel  = "http://schemas.microsoft.com/office/2022/10/relationships/richValueRel"
	relRichStructure = "http://schemas.microsoft.com/office/2017/06/relationships/rdRichValueStructure"
	relRichValue     = "http://schemas.microsoft.com/office/2017/06/relationships/rdRichValue"

	ctSpreadsheetML = "application/vnd.openxmlformats-officedocument.spreadsheetml."
)

// relScope says which relationship part refers to a part.
type relScope int

const (
	scopeNone relScope = iota
	scopeGlobal
	scopeWorkbook
)

// partInfo describes a package part: where it lives, its content type and
// the relationship that makes it reachable.
type partInfo struct {
	path        string // absolute part name
	contentType string
	relType     string
	scope       relScope
}

// target is the relationship target of p as seen from its referring part.
func (p partInfo) target() string {
	if p.scope == scopeWorkbook {
		return strings.TrimPrefix(p.path, "/xl/")
	}
	return strings.TrimPrefix(p.path, "/")
}

var (
	partWorkbook = partInfo{"/xl/workbook.xml", ctSpreadsheetML + "sheet.main+xml", relOfficeDoc, scopeGlobal}
	partStyles   = partInfo{"/xl/styles.xml", ctSpreadsheetML + "styles+xml", relStyles, scopeWorkbook}

	partSharedStrings = partInfo{"/xl/sharedStrings.xml", ctSpreadsheetML + "sharedStrings+xml", relSharedStrings, scopeWorkbook}

	partMetadata = partInfo{"/xl/metadata.xml", ctSpreadsheetML + "sheetMetadata+xml", relMetadata, scopeWorkbook}

	partRichValueRel       = partInfo{"/xl/richData/richValueRel.xml", "application/vnd.ms-excel.richvaluerel+xml", relRichValueRel, scopeWorkbook}
	partRichValueStructure = partInfo{"/xl/richData/rdrichvaluestructure.xml", "application/vnd.ms-excel.rdrichvaluestructure+xml", relRichStructure, scopeWorkbook}
	partRichValueData      = partInfo{"/xl/richData/rdrichvalue.xml", "application/vnd.ms-excel.rdrichvalue+xml", relRichValue, scopeWorkbook}

	partCoreProps = partInfo{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml", relCoreProps, scopeGlobal}
	partAppProps  = partInfo{"/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml", relExtProps, scopeGlobal}
)

func worksheetPart(n int) partInfo {
	return partInfo{
		path:        "/xl/worksheets/sheet" + strconv.Itoa(n) + ".xml",
		contentType: ctSpreadsheetML + "worksheet+xml",
		relType:     relWorksheet,
		scope:       scopeWorkbook,
	}
}

// relsPath returns the relationship part that belongs to the part at path.
func relsPath(path string) string {
	i := strings.LastIndexByte(path, '/')
	return path[:i] + "/_rels" + path[i:] + ".rels"
}

func newXMLWriter(out io.Writer) *xml.Writer {
	x := xml.NewWriter(out, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()
	return x
}

// newFragmentWriter renders a piece of a larger document, without the XML
// declaration.
func newFragmentWriter(out io.Writer) *xml.Writer {
	return xml.NewWriter(out, xml.WriterConfig{Indent: xml.Indent2Spaces})
}

// register records the content type of p and adds the relationship that
// points to it.
func (w *partWriter) register(p partInfo) string {
	w.partContentTypes[p.path] = p.contentType
	switch p.scope {
	case scopeGlobal:
		_, rid := w.nextGlobalID()
		w.globalRels[rid] = relInfo{Type: p.relType, Target: p.target()}
		return rid
	case scopeWorkbook:
		_, rid := w.nextWorkbookID()
		w.workbookRels[rid] = relInfo{Type: p.relType, Target: p.target()}
		return rid
	}
	return ""
}

func (w *partWriter) writePart(p partInfo, blob []byte) error {
	w.register(p)
	return w.out.WriteBlob(p.path, blob)
}

// writeT writes a <t> element, preserving leading and trailing spaces.
func writeT(x *xml.Writer, s string) {
	x.OTag("t")
	if needsSpacePreserve(s) {
		x.Attr("xml:space", "preserve")
	}
	x.Write(s)
	x.CTag()
}

// writeRuns writes the <r> elements of a rich string. A run with a zero
// font inherits the cell font and gets no <rPr>.
func writeRuns(x *xml.Writer, runs []RichRun) {
	for _, r := range runs {
		x.OTag("r")
		if r.Font != (Font{}) {
			writeRunFont(x, r.Font)
		}
		writeT(x, r.Text)
		x.CTag()
	}
}

func writeRunFont(x *xml.Writer, f Font) {
	x.OTag("rPr")
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
	x.OTag("sz").Attr("val", formatNumber(f.Size)).CTag()
	switch {
	case f.Color != "":
		x.OTag("color").Attr("rgb", f.Color.argb()).CTag()
	case f.Theme != 0:
		x.OTag("color").Attr("theme", f.Theme).CTag()
	default:
		x.OTag("color").Attr("theme", defaultFontTheme).CTag()
	}
	x.OTag("rFont").Attr("val", f.Name).CTag()
	x.OTag("family").Attr("val", f.Family).CTag()
	if f.Charset != 0 {
		x.OTag("charset").Attr("val", f.Charset).CTag()
	}
	if f.Scheme != "" && f.Scheme != "none" {
		x.OTag("scheme").Attr("val", f.Scheme).CTag()
	}
	x.CTag()
}

// cutMarker splits a rendered document around a placeholder.
func cutMarker(doc []byte, marker string) (head, tail []byte, ok bool) {
	return bytes.Cut(doc, []byte(marker))
}
