package xl

import (
	"cmp"
	"slices"
)

// DefaultRowHeight is the height of a row in points when none is set.
const DefaultRowHeight = 15

// RowOptions are row level attributes. Style is the fallback format of
// cells in the row that have none of their own.
type RowOptions struct {
	Height    float64 // points, 0 = DefaultRowHeight
	Style     StyleID
	Hidden    bool
	Level     int // outline level, 0..7
	Collapsed bool
}

func (o RowOptions) customHeight() bool {
	return o.Height != 0 && o.Height != DefaultRowHeight
}

type cellEntry struct {
	col  int
	cell Cell
}

// rowData is one sparse row: cells sorted by column, plus the row options
// when any were set.
type rowData struct {
	num   int // zero-based
	cells []cellEntry
	opts  *RowOptions
}

func newRow(num int) *rowData {
	return &rowData{num: num}
}

// set stores c at col, replacing a previous value.
func (r *rowData) set(col int, c Cell) {
	i, found := slices.BinarySearchFunc(r.cells, col, func(e cellEntry, col int) int {
		return cmp.Compare(e.col, col)
	})
	if found {
		r.cells[i].cell = c
		return
	}
	r.cells = slices.Insert(r.cells, i, cellEntry{col: col, cell: c})
}

func (r *rowData) get(col int) (Cell, bool) {
	i, found := slices.BinarySearchFunc(r.cells, col, func(e cellEntry, col int) int {
		return cmp.Compare(e.col, col)
	})
	if !found {
		return Cell{}, false
	}
	return r.cells[i].cell, true
}

// colSpan returns the first and last written column.
func (r *rowData) colSpan() (first, last int, ok bool) {
	if len(r.cells) == 0 {
		return 0, 0, false
	}
	return r.cells[0].col, r.cells[len(r.cells)-1].col, true
}

func (r *rowData) style() StyleID {
	if r.opts == nil {
		return 0
	}
	return r.opts.Style
}
