package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// defaultCharset is taken from $LANG, e.g. "hu_HU.ISO-8859-2".
func defaultCharset() string {
	name := os.Getenv("LANG")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return strings.ToLower(name[i+1:])
	}
	return "utf-8"
}

func getEncoding(name string) (encoding.Encoding, error) {
	name = strings.ToLower(name)
	if name == "" || name == "utf-8" || name == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}
	return enc, nil
}

type csvReadCloser struct {
	*csv.Reader
	io.Closer
}

// openCSV opens fn ("-" for stdin), decodes it from enc and guesses the
// field separator from the first separator-like character.
func openCSV(fn string, enc encoding.Encoding) (csvReadCloser, error) {
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		var err error
		if fh, err = os.Open(fn); err != nil {
			return csvReadCloser{}, err
		}
	}
	r := io.Reader(fh)
	if enc != nil {
		r = enc.NewDecoder().Reader(r)
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && err != io.EOF {
		fh.Close()
		return csvReadCloser{}, err
	}
	sep := ','
	if i := strings.IndexAny(string(b), ",;\t|\n"); i >= 0 && b[i] != '\n' {
		sep = rune(b[i])
	}

	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.Comma = sep
	return csvReadCloser{cr, fh}, nil
}
