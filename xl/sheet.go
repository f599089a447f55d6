package xl

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"
)

// Sheet is a worksheet. Cells are addressed by zero-based row and column.
//
// Every Write method reports rejected input through its error and the
// workbook logger; a rejected write leaves the sheet as it was.
type Sheet struct {
	Name string

	workbook *Workbook
	index    int // zero-based position in the workbook
	store    cellStore
	dim      dimensions
	cols     []colRange
	links    []hyperlink
	linkAt   map[[2]int]int
	conds    []condFormat
	nextRow  int // AppendRow cursor
}

func newSheet(wb *Workbook, name string, index int) *Sheet {
	sh := &Sheet{
		Name:     name,
		workbook: wb,
		index:    index,
		linkAt:   map[[2]int]int{},
	}
	if wb.opts.ConstantMemory {
		sh.store = newStreamStore(sh.renderRow, wb.opts.TmpDir, wb.opts.TmpPattern)
	} else {
		sh.store = newMemStore(sh.renderRow)
	}
	return sh
}

// Index is the zero-based position of the sheet in the workbook.
func (sh *Sheet) Index() int { return sh.index }

// reject logs a dropped write and returns err.
func (sh *Sheet) reject(row, col int, err error) error {
	sh.workbook.log.Warn("write rejected",
		slog.String("sheet", sh.Name),
		slog.Int("row", row),
		slog.Int("col", col),
		slog.Any("error", err))
	return err
}

// writable checks everything a cell write depends on except the value.
func (sh *Sheet) writable(row, col int, style StyleID) error {
	if err := sh.workbook.checkOpen(); err != nil {
		return err
	}
	if !inBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, row, col)
	}
	if !sh.workbook.styles.valid(style) {
		return fmt.Errorf("%w: %d", ErrStyle, style)
	}
	return sh.store.check(row)
}

func (sh *Sheet) put(row, col int, c Cell) error {
	if err := sh.store.set(row, col, c); err != nil {
		return sh.reject(row, col, err)
	}
	sh.dim.add(row, col)
	return nil
}

// Cell returns the value stored at (row, col). In constant memory mode
// only the row being written is available.
func (sh *Sheet) Cell(row, col int) (Cell, bool) {
	return sh.store.get(row, col)
}

func (sh *Sheet) stringCell(s string, style StyleID) (Cell, error) {
	if sh.workbook.opts.ConstantMemory {
		return inlineStringCell(s, style), nil
	}
	i, err := sh.workbook.sst.add(s)
	if err != nil {
		return Cell{}, err
	}
	return sharedStringCell(i, style), nil
}

// WriteString writes a string. Characters that XML cannot carry are
// removed. Random access sheets store the text in the shared string table,
// constant memory sheets write it inline.
func (sh *Sheet) WriteString(row, col int, s string, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	s = sanitizeText(s)
	if err := checkStringLength(s); err != nil {
		return sh.reject(row, col, err)
	}
	c, err := sh.stringCell(s, style)
	if err != nil {
		return sh.reject(row, col, err)
	}
	return sh.put(row, col, c)
}

// WriteRichString writes a string made of differently formatted runs.
func (sh *Sheet) WriteRichString(row, col int, runs []RichRun, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	clean, err := sanitizeRuns(runs)
	if err != nil {
		return sh.reject(row, col, err)
	}
	if sh.workbook.opts.ConstantMemory {
		return sh.put(row, col, inlineRichStringCell(clean, style))
	}
	i, err := sh.workbook.sst.addRich(clean)
	if err != nil {
		return sh.reject(row, col, err)
	}
	return sh.put(row, col, richStringCell(i, style))
}

// WriteNumber writes a number. NaN and infinities are rejected.
func (sh *Sheet) WriteNumber(row, col int, v float64, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	if !validNumber(v) {
		return sh.reject(row, col, fmt.Errorf("%w: %v", ErrNumber, v))
	}
	return sh.put(row, col, numberCell(v, style))
}

func (sh *Sheet) WriteBool(row, col int, v bool, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	return sh.put(row, col, boolCell(v, style))
}

// WriteDateTime writes d as a serial date in the workbook's date system.
// style should carry a date number format for Excel to show a date.
func (sh *Sheet) WriteDateTime(row, col int, d DateTime, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	return sh.put(row, col, dateCell(d.Serial(sh.workbook.opts.Date1904), style))
}

// WriteTime writes the wall clock of t as a serial date.
func (sh *Sheet) WriteTime(row, col int, t time.Time, style StyleID) error {
	return sh.WriteDateTime(row, col, DateTimeOf(t), style)
}

// WriteFormula writes a formula without a cached result. A leading '=' is
// optional.
func (sh *Sheet) WriteFormula(row, col int, formula string, style StyleID) error {
	return sh.WriteFormulaNum(row, col, formula, 0, style)
}

// WriteFormulaNum writes a formula together with the number Excel shows
// until it recalculates.
func (sh *Sheet) WriteFormulaNum(row, col int, formula string, result float64, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	f, err := sh.formula(formula)
	if err != nil {
		return sh.reject(row, col, err)
	}
	if !validNumber(result) {
		return sh.reject(row, col, fmt.Errorf("%w: %v", ErrNumber, result))
	}
	return sh.put(row, col, formulaCell(f, result, style))
}

// WriteFormulaStr writes a formula with a cached string result.
func (sh *Sheet) WriteFormulaStr(row, col int, formula, result string, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	f, err := sh.formula(formula)
	if err != nil {
		return sh.reject(row, col, err)
	}
	result = sanitizeText(result)
	if err := checkStringLength(result); err != nil {
		return sh.reject(row, col, err)
	}
	return sh.put(row, col, formulaStrCell(f, result, style))
}

func (sh *Sheet) formula(s string) (string, error) {
	f := prepareFormula(s, sh.workbook.opts.FutureFunctions)
	if f == "" {
		return "", fmt.Errorf("%w: empty formula", ErrValue)
	}
	if err := checkStringLength(f); err != nil {
		return "", err
	}
	return f, nil
}

// WriteBlank writes a cell that has a format but no value. A blank without
// a format carries nothing and is ignored.
func (sh *Sheet) WriteBlank(row, col int, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	if style == 0 {
		return nil
	}
	return sh.put(row, col, blankCell(style))
}

var errorCodes = map[string]bool{
	"#NULL!": true, "#DIV/0!": true, "#VALUE!": true, "#REF!": true,
	"#NAME?": true, "#NUM!": true, "#N/A": true, "#GETTING_DATA": true,
}

// WriteError writes an error value such as "#N/A".
func (sh *Sheet) WriteError(row, col int, code string, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	if !errorCodes[code] {
		return sh.reject(row, col, fmt.Errorf("%w: unknown error code %q", ErrValue, code))
	}
	return sh.put(row, col, errorCell(code, style))
}

// WritePicture places an image inside the cell.
func (sh *Sheet) WritePicture(row, col int, p PictureInfo, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	i, err := sh.workbook.addMedia(p)
	if err != nil {
		return sh.reject(row, col, err)
	}
	return sh.put(row, col, pictureCell(i, style))
}

// WriteValue writes v with the writer that matches its type. Values that
// implement driver.Valuer are resolved first, so sql.Null* types work. A
// nil value writes a blank when a style is given.
func (sh *Sheet) WriteValue(row, col int, v any, style StyleID) error {
	if vr, ok := v.(driver.Valuer); ok {
		vv, err := vr.Value()
		if err != nil {
			return sh.reject(row, col, fmt.Errorf("%w: %w", ErrValue, err))
		}
		v = vv
	}
	switch x := v.(type) {
	case nil:
		return sh.WriteBlank(row, col, style)
	case string:
		return sh.WriteString(row, col, x, style)
	case []byte:
		return sh.WriteString(row, col, string(x), style)
	case []RichRun:
		return sh.WriteRichString(row, col, x, style)
	case bool:
		return sh.WriteBool(row, col, x, style)
	case int:
		return sh.WriteNumber(row, col, float64(x), style)
	case int8:
		return sh.WriteNumber(row, col, float64(x), style)
	case int16:
		return sh.WriteNumber(row, col, float64(x), style)
	case int32:
		return sh.WriteNumber(row, col, float64(x), style)
	case int64:
		return sh.WriteNumber(row, col, float64(x), style)
	case uint:
		return sh.WriteNumber(row, col, float64(x), style)
	case uint8:
		return sh.WriteNumber(row, col, float64(x), style)
	case uint16:
		return sh.WriteNumber(row, col, float64(x), style)
	case uint32:
		return sh.WriteNumber(row, col, float64(x), style)
	case uint64:
		return sh.WriteNumber(row, col, float64(x), style)
	case float32:
		return sh.WriteNumber(row, col, float64(x), style)
	case float64:
		return sh.WriteNumber(row, col, x, style)
	case time.Time:
		if x.IsZero() {
			return sh.WriteBlank(row, col, style)
		}
		if style == 0 {
			s, err := sh.workbook.dateStyle()
			if err != nil {
				return sh.reject(row, col, err)
			}
			style = s
		}
		return sh.WriteTime(row, col, x, style)
	case DateTime:
		return sh.WriteDateTime(row, col, x, style)
	case Hyperlink:
		return sh.WriteURL(row, col, x, style)
	case PictureInfo:
		return sh.WritePicture(row, col, x, style)
	case fmt.Stringer:
		return sh.WriteString(row, col, x.String(), style)
	}
	return sh.reject(row, col, fmt.Errorf("%w: unsupported type %T", ErrValue, v))
}

// AppendRow writes values to the row after the last written one, starting
// at column 0. A failing value does not stop the others from being
// written; the errors are joined.
func (sh *Sheet) AppendRow(values ...any) error {
	row := sh.nextRow
	if sh.dim.rows && sh.dim.rowMax >= row {
		row = sh.dim.rowMax + 1
	}
	if row >= MaxRows {
		return sh.reject(row, 0, fmt.Errorf("%w: too many rows", ErrOutOfRange))
	}
	sh.nextRow = row + 1

	var errs []error
	for col, v := range values {
		if err := sh.WriteValue(row, col, v, 0); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", RowColToCellName(row, col), err))
		}
	}
	return errors.Join(errs...)
}

// SetRow sets the height, format and outline attributes of a row. In
// constant memory mode this is subject to the same ordering rule as cell
// writes.
func (sh *Sheet) SetRow(row int, opts RowOptions) error {
	if err := sh.writable(row, 0, opts.Style); err != nil {
		return sh.reject(row, 0, err)
	}
	if opts.Height < 0 || opts.Height > 409 {
		return sh.reject(row, 0, fmt.Errorf("%w: row height %v", ErrOutOfRange, opts.Height))
	}
	if opts.Level < 0 || opts.Level > 7 {
		return sh.reject(row, 0, fmt.Errorf("%w: outline level %d", ErrOutOfRange, opts.Level))
	}
	if err := sh.store.setRow(row, opts); err != nil {
		return sh.reject(row, 0, err)
	}
	sh.dim.addRow(row)
	return nil
}

// dimensions is the used range of a sheet.
type dimensions struct {
	rowMin, rowMax int
	colMin, colMax int
	rows, cols     bool
}

func (d *dimensions) add(row, col int) {
	d.addRow(row)
	d.addCol(col)
}

func (d *dimensions) addRow(row int) {
	if !d.rows {
		d.rowMin, d.rowMax, d.rows = row, row, true
		return
	}
	d.rowMin, d.rowMax = min(d.rowMin, row), max(d.rowMax, row)
}

func (d *dimensions) addCol(col int) {
	if !d.cols {
		d.colMin, d.colMax, d.cols = col, col, true
		return
	}
	d.colMin, d.colMax = min(d.colMin, col), max(d.colMax, col)
}

// ref is the dimension reference; "A1" for an empty sheet.
func (d dimensions) ref() string {
	switch {
	case !d.rows && !d.cols:
		return "A1"
	case !d.rows:
		return RangeName(0, d.colMin, 0, d.colMax)
	case !d.cols:
		return RangeName(d.rowMin, 0, d.rowMax, 0)
	}
	return RangeName(d.rowMin, d.colMin, d.rowMax, d.colMax)
}

func validateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0:
		return fmt.Errorf("%w: empty sheet name is not allowed", ErrSheetName)
	case n > MaxSheetNameLength:
		return fmt.Errorf("%w: the sheet name %q is too long", ErrSheetName, s)
	case s[0] == '\'' || s[len(s)-1] == '\'':
		return fmt.Errorf("%w: the first or last character of the sheet name can not be a single quote", ErrSheetName)
	}
	for _, r := range s {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return fmt.Errorf("%w: the sheet name can not contain any of the characters :\\/?*[]", ErrSheetName)
		}
	}
	if hasControlChar(s) {
		return fmt.Errorf("%w: the sheet name %q contains a control character", ErrSheetName, s)
	}
	return nil
}
