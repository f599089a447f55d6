package xl

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/adnsv/srw/xml"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

// partWriter renders the parts of a finalized workbook into a Storage and
// keeps the relationship and content type bookkeeping that ties them
// together.
type partWriter struct {
	out            Storage
	log            *slog.Logger
	lastGlobalId   int
	lastWorkbookId int
	lastRichDataId int

	globalRels          map[string]relInfo // maps id to absolute path
	workbookRels        map[string]relInfo // maps id to absolute paths
	defaultContentTypes map[string]string  // maps path extension to content-type
	partContentTypes    map[string]string  // maps path partname to content-type

	richDataRels map[string]relInfo
}

type relInfo struct {
	Type       string // url to schema type
	Target     string // relative path or external url
	TargetMode string // "External" for links outside the package
}

func newPartWriter(s Storage, log *slog.Logger) *partWriter {
	w := &partWriter{
		out:                 s,
		log:                 log,
		globalRels:          map[string]relInfo{},
		workbookRels:        map[string]relInfo{},
		defaultContentTypes: map[string]string{},
		partContentTypes:    map[string]string{},

		richDataRels: map[string]relInfo{},
	}

	w.defaultContentTypes["xml"] = "application/xml"
	w.defaultContentTypes["rels"] = "application/vnd.openxmlformats-package.relationships+xml"

	return w
}

func (w *partWriter) nextGlobalID() (int, string) {
	w.lastGlobalId++
	return w.lastGlobalId, fmt.Sprintf("rId%d", w.lastGlobalId)
}
func (w *partWriter) nextWorkbookID() (int, string) {
	w.lastWorkbookId++
	return w.lastWorkbookId, fmt.Sprintf("rId%d", w.lastWorkbookId)
}
func (w *partWriter) nextRichDataID() (int, string) {
	w.lastRichDataId++
	return w.lastRichDataId, fmt.Sprintf("rId%d", w.lastRichDataId)
}

// Write renders every part of wb. The workbook tables must be frozen.
func (w *partWriter) write(wb *Workbook) error {
	var err error

	err = w.writeWorkbook(wb)
	if err != nil {
		return err
	}

	err = w.writeTheme()
	if err != nil {
		return err
	}

	err = w.writeStyles(wb)
	if err != nil {
		return err
	}

	if wb.sst.UniqueCount() > 0 {
		err = w.writeSharedStrings(wb.sst)
		if err != nil {
			return err
		}
	}

	if len(wb.media) > 0 {
		err = w.writeMedia(wb.media)
		if err != nil {
			return err
		}

		err = w.writeRichValueRel(wb.media)
		if err != nil {
			return err
		}

		err = w.writeRels(relsPath(partRichValueRel.path), w.richDataRels)
		if err != nil {
			return err
		}

		err = w.writeRichValueStructure()
		if err != nil {
			return err
		}

		err = w.writeRichValueData(wb.media)
		if err != nil {
			return err
		}

		err = w.writeMetadata(wb.media)
		if err != nil {
			return err
		}
	}

	props := wb.opts.Properties
	if props.Created.IsZero() {
		props.Created = time.Now()
	}

	err = w.writeCoreProperties(props)
	if err != nil {
		return err
	}
	err = w.writeExtendedProperties(props, wb.Sheets)
	if err != nil {
		return err
	}

	err = w.writeRels("/xl/_rels/workbook.xml.rels", w.workbookRels)
	if err != nil {
		return err
	}

	err = w.writeRels("/_rels/.rels", w.globalRels)
	if err != nil {
		return err
	}

	return w.writeContentTypes()
}

func (w *partWriter) writeCoreProperties(props DocProperties) error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	if props.Title != "" {
		x.OTag("+dc:title").Write(props.Title).CTag()
	}
	if props.Subject != "" {
		x.OTag("+dc:subject").Write(props.Subject).CTag()
	}
	x.OTag("+dc:creator").Write(props.Author).CTag()
	if props.Keywords != "" {
		x.OTag("+cp:keywords").Write(props.Keywords).CTag()
	}
	if props.Comments != "" {
		x.OTag("+dc:description").Write(props.Comments).CTag()
	}
	x.OTag("+cp:lastModifiedBy").Write(props.Author).CTag()

	created := props.Created.UTC().Format(time.RFC3339)
	x.OTag("+dcterms:created").Attr("xsi:type", "dcterms:W3CDTF").Write(created).CTag()
	x.OTag("+dcterms:modified").Attr("xsi:type", "dcterms:W3CDTF").Write(created).CTag()

	if props.Category != "" {
		x.OTag("+cp:category").Write(props.Category).CTag()
	}

	x.CTag()

	return w.writePart(partCoreProps, bb.Bytes())
}

func (w *partWriter) writeExtendedProperties(props DocProperties, sheets []*Sheet) error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	if props.AppName != "" {
		x.OTag("+Application").String(props.AppName).CTag()
	}
	x.OTag("+DocSecurity").Write(0).CTag()
	x.OTag("+ScaleCrop").Write("false").CTag()

	x.OTag("+HeadingPairs")
	x.OTag("+vt:vector").Attr("size", 2).Attr("baseType", "variant")
	x.OTag("+vt:variant")
	x.OTag("vt:lpstr").Write("Worksheets").CTag()
	x.CTag()
	x.OTag("+vt:variant")
	x.OTag("vt:i4").Write(len(sheets)).CTag()
	x.CTag()
	x.CTag() // vt:vector
	x.CTag() // HeadingPairs

	x.OTag("+TitlesOfParts")
	x.OTag("+vt:vector").Attr("size", len(sheets)).Attr("baseType", "lpstr")
	for _, sh := range sheets {
		x.OTag("+vt:lpstr").Write(sh.Name).CTag()
	}
	x.CTag() // vt:vector
	x.CTag() // TitlesOfParts

	if props.Manager != "" {
		x.OTag("+Manager").Write(props.Manager).CTag()
	}
	x.OTag("+Company").Write(props.Company).CTag()
	x.OTag("+LinksUpToDate").Write("false").CTag()
	x.OTag("+SharedDoc").Write("false").CTag()
	x.OTag("+HyperlinksChanged").Write("false").CTag()
	x.OTag("+AppVersion").Write("12.0000").CTag()

	x.CTag()

	return w.writePart(partAppProps, bb.Bytes())
}

func (w *partWriter) writeContentTypes() error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("Types")
	x.Attr("xmlns", nsCT)
	enumerate(w.defaultContentTypes, func(ext, ctype string) error {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
		return nil
	})
	enumerate(w.partContentTypes, func(abspath, ctype string) error {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
		return nil
	})

	x.CTag()

	return w.out.WriteBlob("[Content_Types].xml", bb.Bytes())
}

func (w *partWriter) writeWorkbook(wb *Workbook) error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("workbook")
	x.Attr("xmlns", nsMain)
	x.Attr("xmlns:r", nsRel)

	x.OTag("+fileVersion")
	x.Attr("appName", "xl")
	x.Attr("lastEdited", 4)
	x.Attr("lowestEdited", 4)
	x.Attr("rupBuild", 4505)
	x.CTag()

	x.OTag("+workbookPr")
	if wb.opts.Date1904 {
		x.Attr("date1904", 1)
	}
	x.Attr("defaultThemeVersion", 124226)
	x.CTag()

	x.OTag("+bookViews")
	x.OTag("+workbookView")
	x.Attr("xWindow", 240)
	x.Attr("yWindow", 15)
	x.Attr("windowWidth", 16095)
	x.Attr("windowHeight", 9660)
	x.CTag()
	x.CTag()

	x.OTag("+sheets")
	for i, sheet := range wb.Sheets {
		sheetRid, err := w.writeSheet(sheet, worksheetPart(i+1))
		if err != nil {
			return err
		}
		w.log.Debug("worksheet written", slog.String("sheet", sheet.Name))

		x.OTag("+sheet")
		x.Attr("name", sheet.Name)
		x.Attr("sheetId", i+1)
		x.Attr("r:id", sheetRid)
		x.CTag()
	}
	x.CTag()

	if len(wb.names) > 0 {
		x.OTag("+definedNames")
		for _, n := range wb.sortedNames() {
			x.OTag("+definedName").Attr("name", n.name)
			if n.scope >= 0 {
				x.Attr("localSheetId", n.scope)
			}
			x.Write(n.formula)
			x.CTag()
		}
		x.CTag()
	}

	x.OTag("+calcPr")
	x.Attr("calcId", 124519)
	x.Attr("fullCalcOnLoad", 1)
	x.CTag()

	x.CTag()

	return w.writePart(partWorkbook, bb.Bytes())
}

func (w *partWriter) writeMedia(media []*MediaInfo) error {
	for _, m := range media {
		ext := m.Name[strings.LastIndexByte(m.Name, '.')+1:]
		_, ctype, err := pictureExt(PictureInfo{Extension: "." + ext})
		if err != nil {
			return err
		}
		w.defaultContentTypes[ext] = ctype

		_, m.RId = w.nextRichDataID()
		fn := "/xl/media/" + m.Name
		err = w.out.WriteBlob(fn, m.Blob)
		if err != nil {
			return err
		}
		w.richDataRels[m.RId] = relInfo{
			Type:   relImage,
			Target: "../media/" + m.Name,
		}
	}
	return nil
}

func (w *partWriter) writeMetadata(media []*MediaInfo) error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("metadata")
	x.Attr("xmlns", nsMain)
	x.Attr("xmlns:xlrd", nsRich)

	x.OTag("+metadataTypes").Attr("count", 1)
	x.OTag("+metadataType")
	x.Attr("name", "XLRICHVALUE")
	x.Attr("minSupportedVersion", "120000")
	for _, s := range []xml.NameString{"copy", "pasteAll", "pasteValues",
		"merge", "splitFirst", "rowColShift", "clearFormats",
		"clearComments", "assign", "coerce"} {
		x.Attr(s, 1)
	}
	x.CTag() // metadataType
	x.CTag() // metadataTypes

	x.OTag("+futureMetadata").Attr("name", "XLRICHVALUE").Attr("count", len(media))
	for _, m := range media {
		x.OTag("+bk")
		x.OTag("extLst")
		x.OTag("ext").Attr("uri", "{3e2802c4-a4d2-4d8b-9148-e3be6c30e623}")
		x.OTag("xlrd:rvb").Attr("i", m.IId).CTag()
		x.CTag() // ext
		x.CTag() // extLst
		x.CTag() // bk
	}
	x.CTag() // futureMetadata

	x.OTag("+valueMetadata").Attr("count", len(media))
	for _, m := range media {
		x.OTag("+bk")
		x.OTag("rc").Attr("t", 1).Attr("v", m.IId).CTag()
		x.CTag() // bk
	}
	x.CTag() // valueMetadata

	x.CTag() // metadata

	return w.writePart(partMetadata, bb.Bytes())
}

func (w *partWriter) writeRichValueRel(media []*MediaInfo) error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("richValueRels")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2022/richvaluerel")
	x.Attr("xmlns:r", nsRel)

	for _, m := range media {
		x.OTag("+rel")
		x.Attr("r:id", m.RId)
		x.CTag()
	}

	x.CTag()

	return w.writePart(partRichValueRel, bb.Bytes())
}

func (w *partWriter) writeRichValueStructure() error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("rvStructures")
	x.Attr("xmlns", nsRich)
	x.Attr("count", 1)

	// define _localImage{Id, CalcOrigin}
	x.OTag("+s").Attr("t", "_localImage")
	x.OTag("+k").Attr("n", "_rvRel:LocalImageIdentifier").Attr("t", "i").CTag()
	x.OTag("+k").Attr("n", "CalcOrigin").Attr("t", "i").CTag()
	x.CTag()

	x.CTag()

	return w.writePart(partRichValueStructure, bb.Bytes())
}

func (w *partWriter) writeRichValueData(media []*MediaInfo) error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("rvData")

	x.Attr("xmlns", nsRich)
	x.Attr("count", len(media))

	for _, m := range media {
		x.OTag("+rv").Attr("s", 0)
		x.OTag("v").Write(m.IId).CTag() // image resource numeric id
		x.OTag("v").Write(5).CTag()
		x.CTag()
	}

	x.CTag()

	return w.writePart(partRichValueData, bb.Bytes())
}

func (w *partWriter) writeRels(path string, rels map[string]relInfo) error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	// ids all look like rId<n>; shorter ids have smaller numbers
	ids := maps.Keys(rels)
	slices.SortFunc(ids, func(a, b string) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	})

	x.OTag("Relationships")
	x.Attr("xmlns", nsPkgRels)
	for _, rid := range ids {
		info := rels[rid]
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target)
		if info.TargetMode != "" {
			x.Attr("TargetMode", info.TargetMode)
		}
		x.CTag()
	}
	x.CTag()

	return w.out.WriteBlob(path, bb.Bytes())
}

func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		err := callback(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}
