package xl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Hyperlink is the target and presentation of a link cell.
//
// URL is one of
//   - a web or mail address: "https://example.com", "mailto:a@example.com"
//   - a location in this workbook: "internal:Sheet2!A1"
//   - a file: "external:c:\reports\q1.xlsx", optionally with "#Sheet1!A1"
type Hyperlink struct {
	URL     string
	Text    string // shown in the cell, defaults to the URL
	Tooltip string
}

type hyperlink struct {
	row, col int
	target   string // relationship target of external links
	location string
	display  string
	tooltip  string
}

func (h hyperlink) external() bool { return h.target != "" }

var urlSchemes = []string{"http://", "https://", "ftp://", "ftps://", "mailto:", "file://"}

func parseHyperlink(link Hyperlink) (hyperlink, string, error) {
	url := link.URL
	if url == "" {
		return hyperlink{}, "", fmt.Errorf("%w: empty url", ErrURL)
	}
	if hasControlChar(url) {
		return hyperlink{}, "", fmt.Errorf("%w: control character in %q", ErrURL, url)
	}
	if n := len(url); n > MaxURLLength {
		return hyperlink{}, "", fmt.Errorf("%w: %d characters exceeds %d", ErrURL, n, MaxURLLength)
	}
	if n := utf8.RuneCountInString(link.Text); n > MaxURLTextLength {
		return hyperlink{}, "", fmt.Errorf("%w: text of %d characters exceeds %d", ErrURL, n, MaxURLTextLength)
	}
	if n := utf8.RuneCountInString(link.Tooltip); n > MaxURLTextLength {
		return hyperlink{}, "", fmt.Errorf("%w: tooltip of %d characters exceeds %d", ErrURL, n, MaxURLTextLength)
	}

	h := hyperlink{tooltip: sanitizeText(link.Tooltip)}
	text := link.Text
	switch {
	case strings.HasPrefix(url, "internal:"):
		h.location = strings.TrimPrefix(url, "internal:")
		if h.location == "" {
			return hyperlink{}, "", fmt.Errorf("%w: empty location", ErrURL)
		}
		if text == "" {
			text = h.location
		}
		h.display = text
	case strings.HasPrefix(url, "external:"):
		path := strings.TrimPrefix(url, "external:")
		if text == "" {
			text = path
		}
		path, h.location, _ = strings.Cut(path, "#")
		path = strings.ReplaceAll(path, `\`, "/")
		if strings.HasPrefix(path, "/") || len(path) > 1 && path[1] == ':' {
			path = "file:///" + strings.TrimPrefix(path, "/")
		}
		if path == "" {
			return hyperlink{}, "", fmt.Errorf("%w: empty file name", ErrURL)
		}
		h.target = strings.ReplaceAll(path, " ", "%20")
	default:
		known := false
		for _, s := range urlSchemes {
			if strings.HasPrefix(strings.ToLower(url), s) {
				known = true
				break
			}
		}
		if !known {
			return hyperlink{}, "", fmt.Errorf("%w: unknown scheme in %q", ErrURL, url)
		}
		if text == "" {
			text = url
		}
		h.target = strings.ReplaceAll(url, " ", "%20")
	}
	return h, sanitizeText(text), nil
}

// WriteURL writes a hyperlink cell. Without a style the cell gets the
// workbook's hyperlink style.
func (sh *Sheet) WriteURL(row, col int, link Hyperlink, style StyleID) error {
	if err := sh.writable(row, col, style); err != nil {
		return sh.reject(row, col, err)
	}
	h, text, err := parseHyperlink(link)
	if err != nil {
		return sh.reject(row, col, err)
	}
	if style == 0 {
		if style, err = sh.workbook.HyperlinkStyle(); err != nil {
			return sh.reject(row, col, err)
		}
	}
	c, err := sh.stringCell(text, style)
	if err != nil {
		return sh.reject(row, col, err)
	}
	if err := sh.put(row, col, c); err != nil {
		return err
	}

	h.row, h.col = row, col
	key := [2]int{row, col}
	if i, ok := sh.linkAt[key]; ok {
		sh.links[i] = h
		return nil
	}
	sh.linkAt[key] = len(sh.links)
	sh.links = append(sh.links, h)
	return nil
}
