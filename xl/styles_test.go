package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDedup(t *testing.T) {
	wb := NewWorkbook()

	bold1, err := wb.AddFormat(Format{Font: Font{Bold: true}})
	require.NoError(t, err)
	bold2, err := wb.AddFormat(Format{Font: Font{Bold: true}})
	require.NoError(t, err)
	italic, err := wb.AddFormat(Format{Font: Font{Italic: true}})
	require.NoError(t, err)

	assert.Equal(t, bold1, bold2)
	assert.NotEqual(t, bold1, italic)
	assert.Equal(t, StyleID(1), bold1)
	assert.Equal(t, StyleID(2), italic)
}

func TestFormatCanonicalEquality(t *testing.T) {
	wb := NewWorkbook()

	// spelled out defaults are the same format as the zero value
	id, err := wb.AddFormat(Format{Font: Font{Name: "Calibri", Size: 11}})
	require.NoError(t, err)
	assert.Equal(t, StyleID(0), id)

	a, err := wb.AddFormat(Format{Font: Font{Color: "FF0000"}})
	require.NoError(t, err)
	b, err := wb.AddFormat(Format{Font: Font{Color: "#ff0000"}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFormatDXFIndependent(t *testing.T) {
	r := newStyleRegistry()

	red := Format{Font: Font{Color: "FF0000"}}
	dxf, err := r.registerDXF(red)
	require.NoError(t, err)
	assert.Equal(t, 0, dxf)

	xf, err := r.register(red)
	require.NoError(t, err)
	assert.Equal(t, StyleID(1), xf)

	again, err := r.registerDXF(red)
	require.NoError(t, err)
	assert.Equal(t, dxf, again)
	assert.Len(t, r.dxfs, 1)
	assert.Len(t, r.xfs, 2)
}

func TestFormatFrozen(t *testing.T) {
	r := newStyleRegistry()
	r.freeze()

	_, err := r.register(Format{Font: Font{Bold: true}})
	assert.ErrorIs(t, err, ErrFinalized)
	_, err = r.registerDXF(Format{Font: Font{Bold: true}})
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestFormatLookup(t *testing.T) {
	wb := NewWorkbook()
	id, err := wb.AddFormat(Format{NumFormat: "0.000"})
	require.NoError(t, err)

	f, err := wb.Format(id)
	require.NoError(t, err)
	assert.Equal(t, "0.000", f.NumFormat)

	_, err = wb.Format(42)
	assert.ErrorIs(t, err, ErrStyle)
}

func TestStyleTablesFirstSeen(t *testing.T) {
	r := newStyleRegistry()
	_, err := r.register(Format{Font: Font{Bold: true}, NumFormat: "0.0000"})
	require.NoError(t, err)
	_, err = r.register(Format{Font: Font{Italic: true}, NumFormat: "0.0000"})
	require.NoError(t, err)
	_, err = r.register(Format{Font: Font{Bold: true}})
	require.NoError(t, err)

	tables := r.freeze()
	assert.Len(t, tables.fonts, 3)
	assert.Equal(t, []int{0, 1, 2, 1}, tables.xfFont)
	require.Len(t, tables.numFmts, 1)
	assert.Equal(t, firstCustomNumFmtID, tables.numFmts[0].id)
	assert.Equal(t, tables.xfNumFmt[1], tables.xfNumFmt[2])
}
