// Package extractor turns uploaded PDF statement files into the flat text
// stream consumed by the bank-specific parsers. It also exposes document
// metadata (page count, info dictionary) for diagnostics.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfSignature is the fixed byte prefix of every well-formed PDF container.
const pdfSignature = "%PDF-"

var (
	ErrNotPDF     = errors.New("file is not a PDF document")
	ErrExtraction = errors.New("could not read PDF content")
)

// IsPDF reports whether the byte sequence starts with the PDF signature.
// It is a cheap pre-check; a true result does not guarantee the file is
// readable, only that it claims to be a PDF.
func IsPDF(data []byte) bool {
	return len(data) >= len(pdfSignature) && string(data[:len(pdfSignature)]) == pdfSignature
}

// Metadata contains diagnostic information about a PDF document.
type Metadata struct {
	PageCount int    `json:"page_count"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Creator   string `json:"creator,omitempty"`
	Producer  string `json:"producer,omitempty"`
}

// Service extracts text and metadata from PDF byte sequences. It holds no
// state; all resources live on the stack of each call, so concurrent use
// needs no synchronization.
type Service struct{}

// New creates a text extraction service.
func New() *Service {
	return &Service{}
}

// ExtractText reads the logical text stream of every page and concatenates
// the results, separated by newlines. It fails when the underlying reader
// cannot parse the container (corrupt, encrypted or unsupported files).
func (s *Service) ExtractText(data []byte) (text string, err error) {
	// The pdf library panics on some malformed files instead of returning
	// an error; convert those into extraction failures.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	if !IsPDF(data) {
		return "", ErrNotPDF
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtraction, i, err)
		}
		sb.WriteString(pageText)
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

// ExtractMetadata returns the page count and the document info dictionary.
// It is not needed for parsing correctness; callers use it for logging and
// troubleshooting, so failures here should never abort an import.
func (s *Service) ExtractMetadata(data []byte) (meta *Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	if !IsPDF(data) {
		return nil, ErrNotPDF
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	meta = &Metadata{PageCount: reader.NumPage()}

	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		meta.Title = info.Key("Title").Text()
		meta.Author = info.Key("Author").Text()
		meta.Creator = info.Key("Creator").Text()
		meta.Producer = info.Key("Producer").Text()
	}

	return meta, nil
}
