package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellValue(t *testing.T) {
	assert.Equal(t, 12.5, cellValue("12.5"))
	assert.Equal(t, -3.0, cellValue(" -3 "))
	assert.Equal(t, 0.25, cellValue("0.25"))
	assert.Equal(t, "007", cellValue("007"))
	assert.Equal(t, "0x1F", cellValue("0x1F"))
	assert.Equal(t, "1_000", cellValue("1_000"))
	assert.Equal(t, "NaN", cellValue("NaN"))
	assert.Equal(t, "abc", cellValue("abc"))
	assert.Nil(t, cellValue("  "))
}

func TestIsDrive(t *testing.T) {
	assert.True(t, isDrive(`c:\data\in.csv`, 1))
	assert.False(t, isDrive("sales:in.csv", 5))
	assert.False(t, isDrive("s:in.csv", 1))
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(in, []byte("name;age\nAda;36\nAlan;41\n"), 0o644))
	out := filepath.Join(dir, "out.xlsx")

	for _, constantMemory := range []bool{false, true} {
		cfg := config{charset: "utf-8", constantMemory: constantMemory, tmpDir: dir, widths: true}
		require.NoError(t, convert(t.Context(), cfg, out, []string{"Team:" + in, in}))

		zr, err := zip.OpenReader(out)
		require.NoError(t, err)
		names := map[string]bool{}
		for _, f := range zr.File {
			names[f.Name] = true
		}
		zr.Close()
		assert.True(t, names["xl/worksheets/sheet1.xml"])
		assert.True(t, names["xl/worksheets/sheet2.xml"])
		assert.Equal(t, !constantMemory, names["xl/sharedStrings.xml"])
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // input and output only
}
