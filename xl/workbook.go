package xl

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// workbookState tracks the close sequence. Content can only change while
// the workbook is open.
type workbookState int

const (
	stateOpen workbookState = iota
	stateContentFinalized
	statePartsRendered
	statePackaged
	stateClosed
)

func (s workbookState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateContentFinalized:
		return "content finalized"
	case statePartsRendered:
		return "parts rendered"
	case statePackaged:
		return "packaged"
	}
	return "closed"
}

// Workbook owns the sheets and the tables they share: formats, shared
// strings, pictures and defined names. A Workbook is not safe for
// concurrent use.
type Workbook struct {
	Sheets []*Sheet

	opts   Options
	log    *slog.Logger
	styles *styleRegistry
	sst    *sharedStrings

	sheetMap map[string]*Sheet // keyed by lower case name
	names    []definedName

	media    []*MediaInfo
	mediaMap map[string]*MediaInfo // maps media name to media info

	hyperlinkStyle StyleID // 0 until first needed
	dateStyleID    StyleID

	state    workbookState
	closeErr error
}

// NewWorkbook creates an empty workbook. At most one Options value is
// used; the options are fixed for the life of the workbook.
func NewWorkbook(opts ...Options) *Workbook {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	o = o.withDefaults()
	return &Workbook{
		opts:     o,
		log:      o.Logger,
		styles:   newStyleRegistry(),
		sst:      newSharedStrings(),
		sheetMap: map[string]*Sheet{},
		mediaMap: map[string]*MediaInfo{},
	}
}

func (wb *Workbook) checkOpen() error {
	if wb.state != stateOpen {
		return fmt.Errorf("%w: workbook is %s", ErrFinalized, wb.state)
	}
	return nil
}

// AddSheet appends a worksheet. An empty name gives "SheetN", N being the
// sheet's position.
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if err := wb.checkOpen(); err != nil {
		return nil, err
	}
	if name == "" {
		name = fmt.Sprintf("Sheet%d", len(wb.Sheets)+1)
	}
	if err := validateSheetName(name); err != nil {
		return nil, err
	}
	key := strings.ToLower(name)
	if _, exists := wb.sheetMap[key]; exists {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateSheet, name)
	}

	sheet := newSheet(wb, name, len(wb.Sheets))
	wb.Sheets = append(wb.Sheets, sheet)
	wb.sheetMap[key] = sheet

	return sheet, nil
}

// Sheet returns the sheet with the given name, compared case
// insensitively.
func (wb *Workbook) Sheet(name string) *Sheet {
	return wb.sheetMap[strings.ToLower(name)]
}

// AddFormat registers f and returns its StyleID. Formats with the same
// attributes share one StyleID.
func (wb *Workbook) AddFormat(f Format) (StyleID, error) {
	if err := wb.checkOpen(); err != nil {
		return 0, err
	}
	return wb.styles.register(f)
}

// Format returns the canonical form of a registered format.
func (wb *Workbook) Format(id StyleID) (Format, error) {
	return wb.styles.format(id)
}

// HyperlinkStyle returns the built-in blue underlined hyperlink format,
// registering it on first use.
func (wb *Workbook) HyperlinkStyle() (StyleID, error) {
	if wb.hyperlinkStyle != 0 {
		return wb.hyperlinkStyle, nil
	}
	id, err := wb.AddFormat(defaultHyperlinkFormat)
	if err != nil {
		return 0, err
	}
	wb.hyperlinkStyle = id
	return id, nil
}

// dateStyle is the format given to time values written without one.
func (wb *Workbook) dateStyle() (StyleID, error) {
	if wb.dateStyleID != 0 {
		return wb.dateStyleID, nil
	}
	id, err := wb.AddFormat(Format{NumFormatID: 22})
	if err != nil {
		return 0, err
	}
	wb.dateStyleID = id
	return id, nil
}

// Close finalizes the content, renders every part into s and closes s
// when it implements io.Closer. Temporary files are removed whether or not
// rendering succeeds. Once called, the workbook no longer accepts content
// and later calls return the result of the first one without writing.
func (wb *Workbook) Close(s Storage) error {
	if wb.state != stateOpen {
		return wb.closeErr
	}
	if len(wb.Sheets) == 0 {
		if _, err := wb.AddSheet(""); err != nil {
			return err
		}
	}
	wb.closeErr = wb.close(s)
	wb.state = stateClosed
	if wb.closeErr != nil {
		wb.log.Error("close failed", slog.Any("error", wb.closeErr))
	}
	return wb.closeErr
}

func (wb *Workbook) close(s Storage) (err error) {
	defer func() {
		for _, sh := range wb.Sheets {
			if rerr := sh.store.release(); rerr != nil && err == nil {
				err = fmt.Errorf("%s: %w", sh.Name, rerr)
			}
		}
	}()

	wb.state = stateContentFinalized
	wb.styles.freeze()
	wb.sst.frozen = true
	for _, sh := range wb.Sheets {
		if err := sh.store.finish(); err != nil {
			return fmt.Errorf("%s: %w", sh.Name, err)
		}
	}
	wb.log.Debug("content finalized",
		slog.Int("sheets", len(wb.Sheets)),
		slog.Int("formats", len(wb.styles.xfs)),
		slog.Int("strings", wb.sst.UniqueCount()))

	if err := newPartWriter(s, wb.log).write(wb); err != nil {
		return err
	}
	wb.state = statePartsRendered

	if c, ok := s.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}
	wb.state = statePackaged
	return nil
}

// SaveAs writes the workbook to an .xlsx file. The file is removed if
// writing fails.
func (wb *Workbook) SaveAs(path string) error {
	if err := wb.checkOpen(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zs := NewZipStorage(f)
	zs.SetCompressionLevel(wb.opts.CompressionLevel)
	err = wb.Close(zs)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

// WriteTo writes the workbook as an .xlsx package to out.
func (wb *Workbook) WriteTo(out io.Writer) (int64, error) {
	if err := wb.checkOpen(); err != nil {
		return 0, err
	}
	cw := &countingWriter{w: out}
	zs := NewZipStorage(cw)
	zs.SetCompressionLevel(wb.opts.CompressionLevel)
	err := wb.Close(zs)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type definedName struct {
	name    string
	scope   int // sheet index, -1 for the whole workbook
	formula string
}

// DefineName adds a named formula or range. "Sheet1!Name" (or
// "'My Sheet'!Name") scopes the name to that sheet.
func (wb *Workbook) DefineName(name, formula string) error {
	if err := wb.checkOpen(); err != nil {
		return err
	}
	scope := -1
	if i := strings.LastIndexByte(name, '!'); i >= 0 {
		sheetName := strings.Trim(name[:i], "'")
		sh := wb.Sheet(sheetName)
		if sh == nil {
			return fmt.Errorf("%w: unknown sheet %q in %q", ErrName, sheetName, name)
		}
		scope, name = sh.index, name[i+1:]
	}
	if err := validateName(name); err != nil {
		return err
	}
	formula = prepareFormula(formula, wb.opts.FutureFunctions)
	if formula == "" {
		return fmt.Errorf("%w: %q has no formula", ErrName, name)
	}
	for _, n := range wb.names {
		if n.scope == scope && strings.EqualFold(n.name, name) {
			return fmt.Errorf("%w: %q is already defined", ErrName, name)
		}
	}
	wb.names = append(wb.names, definedName{name: name, scope: scope, formula: formula})
	return nil
}

// sortedNames orders the names the way Excel lists them: by name, then
// workbook scope before sheet scopes.
func (wb *Workbook) sortedNames() []definedName {
	names := slices.Clone(wb.names)
	slices.SortStableFunc(names, func(a, b definedName) int {
		if c := strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name)); c != 0 {
			return c
		}
		return cmp.Compare(a.scope, b.scope)
	})
	return names
}

var r1c1Name = regexp.MustCompile(`^[rRcC]$|^[rR]\d*[cC]\d*$`)

// validateName checks a defined name: letters, digits, '_', '.' and '\',
// not starting with a digit or '.', and not readable as a cell reference.
func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return fmt.Errorf("%w: empty name", ErrName)
	}
	if n > MaxNameLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrName, name, MaxNameLength)
	}
	if strings.HasPrefix(strings.ToLower(name), "_xlnm.") {
		return fmt.Errorf("%w: %q uses the reserved _xlnm. prefix", ErrName, name)
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_', r == '\\':
		case i > 0 && (unicode.IsDigit(r) || r == '.'):
		default:
			return fmt.Errorf("%w: invalid character %q in %q", ErrName, r, name)
		}
	}
	if _, _, err := CellNameToRowCol(name); err == nil {
		return fmt.Errorf("%w: %q looks like a cell reference", ErrName, name)
	}
	if r1c1Name.MatchString(name) {
		return fmt.Errorf("%w: %q looks like an R1C1 reference", ErrName, name)
	}
	return nil
}
