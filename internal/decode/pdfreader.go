// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/pagemill/pkg/types"
)

// ReaderBackend opens documents with the pure-Go text-layer reader. Only the
// embedded text layer is extracted; scanned, image-only PDFs come back empty.
type ReaderBackend struct{}

// NewReaderBackend returns the default backend.
func NewReaderBackend() *ReaderBackend {
	return &ReaderBackend{}
}

// Open validates the file with a pdfcpu preflight, then builds a reader
// session. The preflight turns corrupt and password-protected inputs into a
// clean OpenError before any page work is scheduled.
func (b *ReaderBackend) Open(path string) (Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	if _, err := api.PageCountFile(path); err != nil {
		return nil, &OpenError{Path: path, Err: fmt.Errorf("preflight: %w", err)}
	}

	f, r, err := openReader(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	return &readerDocument{path: path, file: f, reader: r}, nil
}

// openReader wraps pdf.Open, converting the reader's panics on malformed
// cross-reference tables into errors.
func openReader(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			if f != nil {
				f.Close()
			}
			f, r = nil, nil
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()
	f, r, err = pdf.Open(path)
	return f, r, err
}

// readerDocument is an open session over one PDF file.
type readerDocument struct {
	path   string
	file   *os.File
	reader *pdf.Reader
}

func (d *readerDocument) PageCount() int {
	return d.reader.NumPage()
}

// ConcurrentPages is false: the reader documents no thread-safety contract
// for page access over a shared file handle, so page extraction for one
// document is serialized by the caller. Separate documents still run in
// parallel.
func (d *readerDocument) ConcurrentPages() bool { return false }

func (d *readerDocument) Close() error {
	return d.file.Close()
}

// ExtractRuns decodes the positioned text of one page. The underlying
// reader panics on malformed content streams; those become a per-page
// ExtractionError rather than a crash.
func (d *readerDocument) ExtractRuns(pageIndex int) (runs []types.TextRun, err error) {
	defer func() {
		if p := recover(); p != nil {
			runs = nil
			err = &ExtractionError{Path: d.path, Page: pageIndex, Err: fmt.Errorf("decoding content: %v", p)}
		}
	}()

	if pageIndex < 0 || pageIndex >= d.reader.NumPage() {
		return nil, &ExtractionError{Path: d.path, Page: pageIndex, Err: fmt.Errorf("page out of range")}
	}

	// The reader numbers pages from 1.
	page := d.reader.Page(pageIndex + 1)
	if page.V.IsNull() {
		return nil, &ExtractionError{Path: d.path, Page: pageIndex, Err: fmt.Errorf("page object missing")}
	}

	content := page.Content()
	runs = make([]types.TextRun, 0, len(content.Text))
	for _, t := range content.Text {
		bold, italic := fontStyle(t.Font)
		size := t.FontSize
		if math.IsNaN(size) || size < 0 {
			size = 0
		}
		runs = append(runs, types.TextRun{
			Content:   t.S,
			X0:        t.X,
			Y0:        t.Y,
			X1:        t.X + t.W,
			Y1:        t.Y + size,
			FontSize:  t.FontSize,
			Bold:      bold,
			Italic:    italic,
			PageIndex: pageIndex,
		})
	}
	return runs, nil
}

// fontStyle infers weight and slant flags from a PostScript font name, e.g.
// "Helvetica-BoldOblique" or "TimesNewRoman-It".
func fontStyle(name string) (bold, italic bool) {
	lower := strings.ToLower(name)
	bold = strings.Contains(lower, "bold") || strings.Contains(lower, "-bd")
	italic = strings.Contains(lower, "italic") ||
		strings.Contains(lower, "oblique") ||
		strings.HasSuffix(lower, "-it") ||
		strings.Contains(lower, "-ital")
	return bold, italic
}
