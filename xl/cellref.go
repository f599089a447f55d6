package xl

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnName returns the letters of the zero-based column col: 0 is "A",
// 25 is "Z", 26 is "AA".
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// ColumnIndex parses column letters into a zero-based column index.
func ColumnIndex(letters string) (int, error) {
	letters = strings.TrimPrefix(letters, "$")
	if letters == "" {
		return 0, fmt.Errorf("%w: missing column", ErrCellRef)
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		switch {
		case 'A' <= c && c <= 'Z':
		case 'a' <= c && c <= 'z':
			c -= 'a' - 'A'
		default:
			return 0, fmt.Errorf("%w: %q", ErrCellRef, letters)
		}
		n = n*26 + int(c-'A'+1)
		if n > MaxCols {
			return 0, fmt.Errorf("%w: column %q", ErrOutOfRange, letters)
		}
	}
	return n - 1, nil
}

// RowColToCellName returns the A1 name of the zero-based cell (row, col).
func RowColToCellName(row, col int) string {
	return ColumnName(col) + strconv.Itoa(row+1)
}

// CellNameToRowCol parses an A1 cell name such as "B3" or "$B$3" into
// zero-based (row, col).
func CellNameToRowCol(name string) (row, col int, err error) {
	s := strings.TrimSpace(name)
	i := 0
	if i < len(s) && s[i] == '$' {
		i++
	}
	j := i
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	col, err = ColumnIndex(s[i:j])
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", name, err)
	}
	if j < len(s) && s[j] == '$' {
		j++
	}
	digits := s[j:]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, 0, fmt.Errorf("%w: %q", ErrCellRef, name)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrCellRef, name)
	}
	if n > MaxRows {
		return 0, 0, fmt.Errorf("%q: %w", name, ErrOutOfRange)
	}
	return n - 1, col, nil
}

// RangeToRowCol parses "B3:C5" into zero-based first and last coordinates.
// A single cell name yields a one cell range. The corners are normalized so
// that first <= last.
func RangeToRowCol(ref string) (firstRow, firstCol, lastRow, lastCol int, err error) {
	a, b, found := strings.Cut(ref, ":")
	firstRow, firstCol, err = CellNameToRowCol(a)
	if err != nil {
		return
	}
	if !found {
		return firstRow, firstCol, firstRow, firstCol, nil
	}
	lastRow, lastCol, err = CellNameToRowCol(b)
	if err != nil {
		return
	}
	if firstRow > lastRow {
		firstRow, lastRow = lastRow, firstRow
	}
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	return
}

// RangeName returns "A1:B2" style names; a single cell range collapses to
// the cell name.
func RangeName(firstRow, firstCol, lastRow, lastCol int) string {
	if firstRow == lastRow && firstCol == lastCol {
		return RowColToCellName(firstRow, firstCol)
	}
	return RowColToCellName(firstRow, firstCol) + ":" + RowColToCellName(lastRow, lastCol)
}

func isLetter(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z'
}
