package xl

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Storage receives the package parts. Paths are absolute part names such
// as "/xl/workbook.xml".
type Storage interface {
	WriteBlob(path string, blob []byte) error
	// WriteStream copies a part from r. Worksheets are written this way so
	// that large sheets are never held in memory as a whole.
	WriteStream(path string, r io.Reader) error
}

// DirStorage writes the parts as plain files below Dir. It is useful for
// inspecting the generated XML.
type DirStorage struct {
	Dir string
}

// NewDirStorage creates a storage rooted at dir. Directories are created
// as needed.
func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{
		Dir: dir,
	}
}

func (ds *DirStorage) create(path string) (*os.File, error) {
	fn := filepath.Join(ds.Dir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if err := os.MkdirAll(filepath.Dir(fn), 0777); err != nil {
		return nil, err
	}
	return os.Create(fn)
}

func (ds *DirStorage) WriteBlob(path string, blob []byte) error {
	f, err := ds.create(path)
	if err != nil {
		return err
	}
	_, err = f.Write(blob)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (ds *DirStorage) WriteStream(path string, r io.Reader) error {
	f, err := ds.create(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ZipStorage writes the parts into a zip archive, which makes an .xlsx
// file. Close must be called to complete the archive.
type ZipStorage struct {
	z *zip.Writer
}

// NewZipStorage creates a zip storage writing to out.
func NewZipStorage(out io.Writer) *ZipStorage {
	return &ZipStorage{z: zip.NewWriter(out)}
}

// SetCompressionLevel selects the deflate level, flate.DefaultCompression
// through flate.BestCompression. Zero keeps the default.
func (zs *ZipStorage) SetCompressionLevel(level int) {
	if level == 0 || level < flate.HuffmanOnly || level > flate.BestCompression {
		return
	}
	zs.z.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
}

func (zs *ZipStorage) WriteBlob(path string, blob []byte) error {
	f, err := zs.z.Create(strings.TrimPrefix(path, "/"))
	if err != nil {
		return err
	}
	_, err = f.Write(blob)
	return err
}

func (zs *ZipStorage) WriteStream(path string, r io.Reader) error {
	f, err := zs.z.Create(strings.TrimPrefix(path, "/"))
	if err != nil {
		return err
	}
	_, err = io.Copy(f, r)
	return err
}

// Close writes the zip central directory. It does not close the
// underlying writer.
func (zs *ZipStorage) Close() error {
	return zs.z.Close()
}
