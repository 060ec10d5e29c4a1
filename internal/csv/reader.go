// Package csv reads user-data CSV files into raw field mappings.
//
// It tolerates the artifacts real exports carry: UTF-8 BOMs from Windows
// tools, Excel formula-quoted cells (="0123"), ragged rows, and fully
// empty lines. Cell values are cleaned but not interpreted; typing and
// validation happen downstream.
package csv

import (
	"bufio"
	"bytes"
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader yields one map per data row, keyed by the cleaned (lowercased)
// header names. Next returns io.EOF when the file is exhausted.
type Reader struct {
	cr     *stdcsv.Reader
	header []string
	line   int
}

// NewReader reads the header row and prepares to stream data rows.
// Returns an error when the input is empty or the header is unreadable.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	if err := skipBOM(br); err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	cr := stdcsv.NewReader(br)
	cr.FieldsPerRecord = -1 // rows may be ragged; handled per-row
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true // tolerate Excel formula cells like ="0042"

	raw, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	header := make([]string, len(raw))
	for i, h := range raw {
		header[i] = CleanHeader(h)
	}
	return &Reader{cr: cr, header: header}, nil
}

// Header returns the cleaned column names in file order.
func (r *Reader) Header() []string { return r.header }

// Line returns the physical input line of the row last returned by Next,
// counting from 1 and including the header and any skipped empty lines.
// It is 0 before the first successful Next.
func (r *Reader) Line() int { return r.line }

// Next returns the next non-empty data row as a field mapping.
// Columns absent from a ragged row are simply missing from the map.
func (r *Reader) Next() (map[string]string, error) {
	for {
		rec, err := r.cr.Read()
		if err != nil {
			return nil, err
		}
		if rowEmpty(rec) {
			continue
		}
		r.line, _ = r.cr.FieldPos(0)

		fields := make(map[string]string, len(r.header))
		for i, name := range r.header {
			if name == "" || i >= len(rec) {
				continue
			}
			fields[name] = CleanCell(rec[i])
		}
		return fields, nil
	}
}

// FileReader is a Reader backed by an open file.
type FileReader struct {
	*Reader
	f *os.File
}

// OpenFile opens path and returns a Reader over it. The caller must Close.
func OpenFile(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &FileReader{Reader: r, f: f}, nil
}

// Close closes the underlying file.
func (r *FileReader) Close() error { return r.f.Close() }

// CleanHeader normalizes a header cell: BOM and Excel artifacts stripped,
// whitespace trimmed, lowercased.
func CleanHeader(s string) string {
	return strings.ToLower(CleanCell(s))
}

// CleanCell strips an Excel formula wrapper (="value"), surrounding
// whitespace, and zero-width/no-break characters from a cell value.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF':
			return -1
		case '\u00A0':
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// skipBOM discards a leading UTF-8 byte order mark if present.
func skipBOM(br *bufio.Reader) error {
	head, err := br.Peek(len(utf8BOM))
	if err != nil && err != io.EOF {
		return err
	}
	if bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return err
		}
	}
	return nil
}

// rowEmpty reports whether every cell in the row is blank.
func rowEmpty(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
