package xl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/valyala/bytebufferpool"
)

// rowRenderer serializes one row into b. spans is the value of the row's
// spans attribute, empty for none.
type rowRenderer func(b *bytebufferpool.ByteBuffer, r *rowData, spans string)

// cellStore is the cell matrix of a sheet. The two implementations are the
// random access memStore and the forward only streamStore.
type cellStore interface {
	// check reports whether row can still be written.
	check(row int) error
	set(row, col int, c Cell) error
	setRow(row int, opts RowOptions) error
	get(row, col int) (Cell, bool)

	// finish ends writing. No set calls are accepted afterwards.
	finish() error
	// reader returns the serialized rows in ascending order.
	reader() (io.Reader, error)
	// pending is the number of cells held in memory.
	pending() int
	// release frees any temporary resources.
	release() error
}

// memStore keeps every row in an ordered map keyed by row number.
type memStore struct {
	rows   *treemap.Map
	cells  int
	render rowRenderer
}

func newMemStore(render rowRenderer) *memStore {
	return &memStore{
		rows:   treemap.NewWithIntComparator(),
		render: render,
	}
}

func (m *memStore) row(num int) *rowData {
	if v, ok := m.rows.Get(num); ok {
		return v.(*rowData)
	}
	r := newRow(num)
	m.rows.Put(num, r)
	return r
}

func (m *memStore) check(int) error { return nil }

func (m *memStore) set(row, col int, c Cell) error {
	r := m.row(row)
	if _, ok := r.get(col); !ok {
		m.cells++
	}
	r.set(col, c)
	return nil
}

func (m *memStore) setRow(row int, opts RowOptions) error {
	m.row(row).opts = &opts
	return nil
}

func (m *memStore) get(row, col int) (Cell, bool) {
	v, ok := m.rows.Get(row)
	if !ok {
		return Cell{}, false
	}
	return v.(*rowData).get(col)
}

func (m *memStore) finish() error { return nil }

func (m *memStore) pending() int { return m.cells }

func (m *memStore) release() error {
	m.rows.Clear()
	m.cells = 0
	return nil
}

// reader renders rows lazily. Rows that have cells share one spans value
// per block of 16 rows.
func (m *memStore) reader() (io.Reader, error) {
	type span struct{ first, last int }
	blocks := map[int]span{}
	it := m.rows.Iterator()
	for it.Next() {
		r := it.Value().(*rowData)
		first, last, ok := r.colSpan()
		if !ok {
			continue
		}
		block := r.num / 16
		if sp, ok := blocks[block]; ok {
			first, last = min(first, sp.first), max(last, sp.last)
		}
		blocks[block] = span{first, last}
	}

	it = m.rows.Iterator()
	return &rowReader{next: func(b *bytebufferpool.ByteBuffer) bool {
		if !it.Next() {
			return false
		}
		r := it.Value().(*rowData)
		spans := ""
		if sp, ok := blocks[r.num/16]; ok && len(r.cells) > 0 {
			spans = strconv.Itoa(sp.first+1) + ":" + strconv.Itoa(sp.last+1)
		}
		m.render(b, r, spans)
		return true
	}}, nil
}

// streamStore holds only the row being written. Moving to a higher row
// serializes the current one to a temporary file.
type streamStore struct {
	cur    *rowData
	render rowRenderer

	tmpDir     string
	tmpPattern string
	file       *os.File
	out        *bufio.Writer
	finished   bool
	err        error // sticky temp file failure
}

func newStreamStore(render rowRenderer, tmpDir, tmpPattern string) *streamStore {
	return &streamStore{
		render:     render,
		tmpDir:     tmpDir,
		tmpPattern: tmpPattern,
	}
}

func (s *streamStore) check(row int) error {
	if s.err != nil {
		return s.err
	}
	if s.finished {
		return ErrFinalized
	}
	if s.cur != nil && row < s.cur.num {
		return fmt.Errorf("%w: row %d, current row %d", ErrRowOrder, row, s.cur.num)
	}
	return nil
}

// advance makes row the current row, flushing the previous one.
func (s *streamStore) advance(row int) error {
	if err := s.check(row); err != nil {
		return err
	}
	if s.cur != nil && s.cur.num == row {
		return nil
	}
	if err := s.flush(); err != nil {
		s.err = err
		return err
	}
	s.cur = newRow(row)
	return nil
}

func (s *streamStore) set(row, col int, c Cell) error {
	if err := s.advance(row); err != nil {
		return err
	}
	s.cur.set(col, c)
	return nil
}

func (s *streamStore) setRow(row int, opts RowOptions) error {
	if err := s.advance(row); err != nil {
		return err
	}
	s.cur.opts = &opts
	return nil
}

func (s *streamStore) get(row, col int) (Cell, bool) {
	if s.cur == nil || s.cur.num != row {
		return Cell{}, false
	}
	return s.cur.get(col)
}

func (s *streamStore) flush() error {
	r := s.cur
	if r == nil {
		return nil
	}
	s.cur = nil
	if s.file == nil {
		f, err := os.CreateTemp(s.tmpDir, s.tmpPattern)
		if err != nil {
			return fmt.Errorf("create row buffer: %w", err)
		}
		s.file = f
		s.out = bufio.NewWriter(f)
	}

	spans := ""
	if first, last, ok := r.colSpan(); ok {
		spans = strconv.Itoa(first+1) + ":" + strconv.Itoa(last+1)
	}
	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)
	s.render(b, r, spans)
	_, err := s.out.Write(b.B)
	return err
}

func (s *streamStore) finish() error {
	if s.finished {
		return s.err
	}
	s.finished = true
	if s.err != nil {
		return s.err
	}
	if err := s.flush(); err != nil {
		s.err = err
		return err
	}
	if s.out != nil {
		s.err = s.out.Flush()
	}
	return s.err
}

func (s *streamStore) reader() (io.Reader, error) {
	if err := s.finish(); err != nil {
		return nil, err
	}
	if s.file == nil {
		return bytes.NewReader(nil), nil
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return s.file, nil
}

func (s *streamStore) pending() int {
	if s.cur == nil {
		return 0
	}
	return len(s.cur.cells)
}

func (s *streamStore) release() error {
	s.cur = nil
	if s.file == nil {
		return nil
	}
	name := s.file.Name()
	err := s.file.Close()
	s.file, s.out = nil, nil
	if rerr := os.Remove(name); err == nil {
		err = rerr
	}
	return err
}

// rowReader is an io.Reader over chunks produced on demand into a pooled
// buffer.
type rowReader struct {
	next func(b *bytebufferpool.ByteBuffer) bool
	buf  *bytebufferpool.ByteBuffer
	off  int
	done bool
}

func (r *rowReader) Read(p []byte) (int, error) {
	for r.buf == nil || r.off >= len(r.buf.B) {
		if r.done {
			return 0, io.EOF
		}
		if r.buf == nil {
			r.buf = bytebufferpool.Get()
		}
		r.buf.Reset()
		r.off = 0
		if !r.next(r.buf) {
			r.done = true
			bytebufferpool.Put(r.buf)
			r.buf = nil
			return 0, io.EOF
		}
	}
	n := copy(p, r.buf.B[r.off:])
	r.off += n
	return n, nil
}
