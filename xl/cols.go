package xl

import "fmt"

// DefaultColumnWidth is the width of a column in characters when none is
// set.
const DefaultColumnWidth = 8.43

// ColOptions are column attributes. Width is in characters of the default
// font; zero means DefaultColumnWidth. Style is the fallback format of
// cells in the column that have neither a format of their own nor a row
// format.
type ColOptions struct {
	Width     float64
	Style     StyleID
	Hidden    bool
	Level     int // outline level, 0..7
	Collapsed bool
}

type colRange struct {
	first, last int
	opts        ColOptions
}

// SetColumn sets the attributes of columns first through last. Ranges are
// kept in call order; where ranges overlap the later one wins.
func (sh *Sheet) SetColumn(first, last int, opts ColOptions) error {
	if first > last {
		first, last = last, first
	}
	if err := sh.workbook.checkOpen(); err != nil {
		return sh.reject(0, first, err)
	}
	if first < 0 || last >= MaxCols {
		return sh.reject(0, first, fmt.Errorf("%w: columns %d..%d", ErrOutOfRange, first, last))
	}
	if !sh.workbook.styles.valid(opts.Style) {
		return sh.reject(0, first, fmt.Errorf("%w: %d", ErrStyle, opts.Style))
	}
	if opts.Width < 0 || opts.Width > 255 {
		return sh.reject(0, first, fmt.Errorf("%w: column width %v", ErrOutOfRange, opts.Width))
	}
	if opts.Level < 0 || opts.Level > 7 {
		return sh.reject(0, first, fmt.Errorf("%w: outline level %d", ErrOutOfRange, opts.Level))
	}
	if opts.Width == 0 {
		opts.Width = DefaultColumnWidth
	}
	sh.cols = append(sh.cols, colRange{first: first, last: last, opts: opts})
	if opts.Style != 0 || opts.Hidden {
		sh.dim.addCol(first)
		sh.dim.addCol(last)
	}
	return nil
}

// SetColumnWidth sets the width of columns first through last.
func (sh *Sheet) SetColumnWidth(first, last int, width float64) error {
	return sh.SetColumn(first, last, ColOptions{Width: width})
}

// columnStyle is the format of the last range covering col.
func (sh *Sheet) columnStyle(col int) StyleID {
	for i := len(sh.cols) - 1; i >= 0; i-- {
		if c := sh.cols[i]; c.first <= col && col <= c.last {
			return c.opts.Style
		}
	}
	return 0
}

// colSegments resolves overlapping ranges into disjoint ones, merging
// neighbors with equal attributes.
func (sh *Sheet) colSegments() []colRange {
	if len(sh.cols) == 0 {
		return nil
	}
	lo, hi := MaxCols, -1
	for _, c := range sh.cols {
		lo, hi = min(lo, c.first), max(hi, c.last)
	}
	eff := make([]int, hi-lo+1) // index into sh.cols + 1, 0 = none
	for i, c := range sh.cols {
		for col := c.first; col <= c.last; col++ {
			eff[col-lo] = i + 1
		}
	}

	var out []colRange
	for i, r := range eff {
		if r == 0 {
			continue
		}
		col, opts := lo+i, sh.cols[r-1].opts
		if n := len(out); n > 0 && out[n-1].last == col-1 && out[n-1].opts == opts {
			out[n-1].last = col
			continue
		}
		out = append(out, colRange{first: col, last: col, opts: opts})
	}
	return out
}

// columnWidth converts a width in characters to the stored width, which
// includes cell padding and is rounded to whole pixels.
func columnWidth(w float64) float64 {
	const maxDigitWidth, padding = 7.0, 5.0
	if w <= 0 {
		return 0
	}
	var px int
	if w < 1 {
		px = int(w*(maxDigitWidth+padding) + 0.5)
	} else {
		px = int(w*maxDigitWidth+0.5) + padding
	}
	return float64(int(float64(px)/maxDigitWidth*256)) / 256
}
