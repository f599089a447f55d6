package xl

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RichRun is one fragment of a rich string. A zero Font renders with the
// cell's font.
type RichRun struct {
	Font Font
	Text string
}

// sstEntry is a shared string; runs is nil for plain strings.
type sstEntry struct {
	text string
	runs []RichRun
}

// sharedStrings is the workbook's shared string table. Indices are stable
// once assigned.
type sharedStrings struct {
	entries []sstEntry
	plain   map[string]int
	rich    map[string]int
	count   int
	frozen  bool
}

func newSharedStrings() *sharedStrings {
	return &sharedStrings{
		plain: map[string]int{},
		rich:  map[string]int{},
	}
}

// Count is the number of references made to the table, duplicates
// included.
func (t *sharedStrings) Count() int { return t.count }

// UniqueCount is the number of distinct entries.
func (t *sharedStrings) UniqueCount() int { return len(t.entries) }

func (t *sharedStrings) add(s string) (int, error) {
	if t.frozen {
		return 0, ErrFinalized
	}
	s = sanitizeText(s)
	if err := checkStringLength(s); err != nil {
		return 0, err
	}
	t.count++
	if i, ok := t.plain[s]; ok {
		return i, nil
	}
	i := len(t.entries)
	t.entries = append(t.entries, sstEntry{text: s})
	t.plain[s] = i
	return i, nil
}

func (t *sharedStrings) addRich(runs []RichRun) (int, error) {
	if t.frozen {
		return 0, ErrFinalized
	}
	runs, err := sanitizeRuns(runs)
	if err != nil {
		return 0, err
	}
	key := richKey(runs)
	t.count++
	if i, ok := t.rich[key]; ok {
		return i, nil
	}
	i := len(t.entries)
	t.entries = append(t.entries, sstEntry{runs: runs})
	t.rich[key] = i
	return i, nil
}

// sanitizeRuns validates a rich string and returns a private copy with the
// text cleaned and the fonts in canonical form.
func sanitizeRuns(runs []RichRun) ([]RichRun, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs", ErrRichString)
	}
	out := make([]RichRun, len(runs))
	total := 0
	for i, r := range runs {
		text := sanitizeText(r.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: run %d has no text", ErrRichString, i)
		}
		total += utf8.RuneCountInString(text)
		font := r.Font
		if font != (Font{}) {
			font = font.canonical()
		}
		out[i] = RichRun{Font: font, Text: text}
	}
	if total > MaxStringLength {
		return nil, fmt.Errorf("%w: %d characters", ErrStringTooLong, total)
	}
	return out, nil
}

// richKey encodes the runs so that two rich strings share a key exactly
// when every run has the same text and the same font.
func richKey(runs []RichRun) string {
	var sb strings.Builder
	for _, r := range runs {
		fk := fmt.Sprintf("%#v", r.Font)
		sb.WriteString(strconv.Itoa(len(fk)))
		sb.WriteByte(':')
		sb.WriteString(fk)
		sb.WriteString(strconv.Itoa(len(r.Text)))
		sb.WriteByte(':')
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func checkStringLength(s string) error {
	if n := utf8.RuneCountInString(s); n > MaxStringLength {
		return fmt.Errorf("%w: %d characters", ErrStringTooLong, n)
	}
	return nil
}

// sanitizeText drops characters that XML 1.0 does not allow in text and
// turns CR and CRLF line breaks into LF.
func sanitizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	clean := true
	for _, r := range s {
		if !validXMLChar(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	return strings.Map(func(r rune) rune {
		if validXMLChar(r) {
			return r
		}
		return -1
	}, s)
}

// hasControlChar reports whether s has anything but printable characters,
// line breaks and tabs included.
func hasControlChar(s string) bool {
	if !utf8.ValidString(s) {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool {
		return r < 0x20 || !validXMLChar(r)
	})
}

// validXMLChar reports whether r can be written as is. CR is excluded
// because the xml writer folds it into LF.
func validXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n':
		return true
	case r < 0x20:
		return false
	case r == 0xFFFE || r == 0xFFFF:
		return false
	}
	return true
}

func (w *partWriter) writeSharedStrings(t *sharedStrings) error {
	bb := bytes.Buffer{}
	x := newXMLWriter(&bb)

	x.OTag("sst")
	x.Attr("xmlns", nsMain)
	x.Attr("count", t.Count())
	x.Attr("uniqueCount", t.UniqueCount())

	for _, e := range t.entries {
		x.OTag("+si")
		if e.runs == nil {
			writeT(x, e.text)
		} else {
			writeRuns(x, e.runs)
		}
		x.CTag()
	}

	x.CTag()

	return w.writePart(partSharedStrings, bb.Bytes())
}
