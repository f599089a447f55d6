package xl

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
)

// PictureInfo is an image placed in a cell. Extension is ".png", ".jpg"
// or ".jpeg".
type PictureInfo struct {
	Extension string
	Blob      []byte
}

// MediaInfo is an image stored once in the package, however many cells
// show it.
type MediaInfo struct {
	Name string // hashed blob + extension
	Blob []byte
	IId  int
	RId  string
}

func BlobHash(blob []byte) uuid.UUID {
	h := fnv.New128()
	h.Write(blob)
	uid, _ := uuid.FromBytes(h.Sum([]byte{}))
	return uid
}

// pictureExt returns the normalized extension and the content type of p.
func pictureExt(p PictureInfo) (ext, ctype string, err error) {
	ext = strings.ToLower(p.Extension)
	switch ext {
	case ".jpg", ".jpeg":
		return "jpeg", "image/jpeg", nil
	case ".png":
		return "png", "image/png", nil
	}
	return "", "", fmt.Errorf("%w: unsupported image extension %q", ErrPicture, p.Extension)
}

// addMedia registers the picture in the workbook media table and returns
// its index. Identical blobs share one entry.
func (wb *Workbook) addMedia(p PictureInfo) (int, error) {
	if len(p.Blob) == 0 {
		return 0, fmt.Errorf("%w: empty picture data", ErrPicture)
	}
	ext, _, err := pictureExt(p)
	if err != nil {
		return 0, err
	}
	n := BlobHash(p.Blob).String() + "." + ext
	if info, ok := wb.mediaMap[n]; ok {
		return info.IId, nil
	}
	info := &MediaInfo{
		Name: n,
		Blob: p.Blob,
		IId:  len(wb.media),
	}
	wb.mediaMap[n] = info
	wb.media = append(wb.media, info)
	return info.IId, nil
}
