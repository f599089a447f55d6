package xl

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/bytebufferpool"
)

// plainRender writes "r:c,c;" per row so the output order is easy to check.
func plainRender(b *bytebufferpool.ByteBuffer, r *rowData, spans string) {
	b.WriteString(spans)
	b.WriteString("|")
	for _, e := range r.cells {
		b.WriteString(ColumnName(e.col))
	}
	b.WriteString(";")
}

func readAll(t *testing.T, s cellStore) string {
	t.Helper()
	r, err := s.reader()
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func TestMemStoreOrder(t *testing.T) {
	m := newMemStore(plainRender)
	require.NoError(t, m.set(20, 1, numberCell(1, 0)))
	require.NoError(t, m.set(3, 4, numberCell(2, 0)))
	require.NoError(t, m.set(3, 0, numberCell(3, 0)))
	require.NoError(t, m.set(3, 4, numberCell(4, 0))) // overwrite
	require.NoError(t, m.setRow(5, RowOptions{Height: 30}))

	assert.Equal(t, 3, m.pending())
	c, ok := m.get(3, 4)
	require.True(t, ok)
	assert.Equal(t, 4.0, c.Number())

	// rows 3 and 5 share a block of 16 rows, row 20 is in the next one
	assert.Equal(t, "1:5|AE;|;2:2|B;", readAll(t, m))

	require.NoError(t, m.release())
	assert.Equal(t, 0, m.pending())
}

func TestStreamStoreOrder(t *testing.T) {
	s := newStreamStore(plainRender, t.TempDir(), "rows-*.xml")
	defer s.release()

	require.NoError(t, s.set(5, 2, numberCell(1, 0)))
	require.NoError(t, s.set(5, 0, numberCell(2, 0)))
	assert.Equal(t, 2, s.pending())

	err := s.set(3, 0, numberCell(3, 0))
	assert.ErrorIs(t, err, ErrRowOrder)

	require.NoError(t, s.set(5, 1, numberCell(4, 0)))
	require.NoError(t, s.set(9, 7, numberCell(5, 0)))

	// only the current row is held
	assert.Equal(t, 1, s.pending())
	_, ok := s.get(5, 0)
	assert.False(t, ok)
	_, ok = s.get(9, 7)
	assert.True(t, ok)

	assert.Equal(t, "1:3|ABC;8:8|H;", readAll(t, s))

	assert.ErrorIs(t, s.check(10), ErrFinalized)
}

func TestStreamStoreRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	s := newStreamStore(plainRender, dir, "rows-*.xml")
	require.NoError(t, s.set(0, 0, numberCell(1, 0)))
	require.NoError(t, s.set(1, 0, numberCell(1, 0)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s.release())
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStreamStoreEmpty(t *testing.T) {
	s := newStreamStore(plainRender, t.TempDir(), "rows-*.xml")
	assert.Equal(t, "", readAll(t, s))
	assert.NoError(t, s.release())
}

func TestRowReaderSmallReads(t *testing.T) {
	m := newMemStore(plainRender)
	for row := 0; row < 100; row++ {
		require.NoError(t, m.set(row, row%3, numberCell(float64(row), 0)))
	}
	r, err := m.reader()
	require.NoError(t, err)

	var sb strings.Builder
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, readAll(t, m), sb.String())
	assert.Equal(t, 100, strings.Count(sb.String(), ";"))
}
