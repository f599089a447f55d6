package xl

import (
	"log/slog"
	"time"

	"github.com/klauspost/compress/flate"
)

// Options are fixed for the lifetime of a workbook.
type Options struct {
	// ConstantMemory selects the streaming cell store: rows must be written
	// in non-decreasing order and each finished row is flushed to a
	// temporary file. Strings are written inline instead of through the
	// shared string table.
	ConstantMemory bool

	// Date1904 selects the 1904 date system.
	Date1904 bool

	// TmpDir is where constant memory mode keeps its row data until the
	// workbook is closed. Empty means os.TempDir().
	TmpDir string

	// TmpPattern is the base name pattern for temporary files, as accepted
	// by os.CreateTemp.
	TmpPattern string

	// CompressionLevel is the flate level used by ZipStorage created
	// through SaveAs and WriteTo. Zero means flate.DefaultCompression.
	CompressionLevel int

	// FutureFunctions adds the _xlfn. prefix to functions introduced after
	// Excel 2007 when formulas are written.
	FutureFunctions bool

	// Logger receives reports about rejected writes. Nil discards them.
	Logger *slog.Logger

	Properties DocProperties
}

// DocProperties are written to docProps/core.xml and docProps/app.xml.
type DocProperties struct {
	Title    string
	Subject  string
	Author   string
	Manager  string
	Company  string
	Category string
	Keywords string
	Comments string
	AppName  string
	Created  time.Time // zero means the time of Close
}

func (o Options) withDefaults() Options {
	if o.TmpPattern == "" {
		o.TmpPattern = "xlsxwriter-*.xml"
	}
	if o.CompressionLevel == 0 {
		o.CompressionLevel = flate.DefaultCompression
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Properties.AppName == "" {
		o.Properties.AppName = "Microsoft Excel"
	}
	o.Properties = o.Properties.sanitized()
	return o
}

func (p DocProperties) sanitized() DocProperties {
	for _, s := range []*string{
		&p.Title, &p.Subject, &p.Author, &p.Manager, &p.Company,
		&p.Category, &p.Keywords, &p.Comments, &p.AppName,
	} {
		*s = sanitizeText(*s)
	}
	return p
}
