package extractor

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF renders one line per cell. Extracted text may lose line breaks,
// so fixture lines carry a trailing space to keep tokens separated.
func buildPDF(t *testing.T, title string, lines []string) []byte {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	if title != "" {
		doc.SetTitle(title, false)
	}
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		doc.Cell(0, 8, line)
		doc.Ln(8)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\nrest of file")))
	assert.False(t, IsPDF([]byte("GIF89a")))
	assert.False(t, IsPDF([]byte("%PD")))
	assert.False(t, IsPDF(nil))
}

func TestService_ExtractText(t *testing.T) {
	s := New()

	t.Run("reads text back from a generated document", func(t *testing.T) {
		data := buildPDF(t, "", []string{
			"FATURA DO CARTAO ",
			"Emissao: 01/01/2024 ",
			"Total desta fatura R$ 99,00 ",
		})

		text, err := s.ExtractText(data)
		require.NoError(t, err)

		assert.Contains(t, text, "FATURA DO CARTAO")
		assert.Contains(t, text, "Emissao: 01/01/2024")
		assert.Contains(t, text, "Total desta fatura R$ 99,00")
	})

	t.Run("rejects non-PDF input", func(t *testing.T) {
		_, err := s.ExtractText([]byte("plain text upload"))
		assert.ErrorIs(t, err, ErrNotPDF)
	})

	t.Run("fails on a truncated container", func(t *testing.T) {
		_, err := s.ExtractText([]byte("%PDF-1.7\nthis is not a real document"))
		assert.ErrorIs(t, err, ErrExtraction)
	})
}

func TestService_ExtractMetadata(t *testing.T) {
	s := New()

	t.Run("reads page count and info dictionary", func(t *testing.T) {
		data := buildPDF(t, "Fatura Janeiro", []string{"pagina um "})

		meta, err := s.ExtractMetadata(data)
		require.NoError(t, err)

		assert.Equal(t, 1, meta.PageCount)
		assert.Equal(t, "Fatura Janeiro", meta.Title)
	})

	t.Run("rejects non-PDF input", func(t *testing.T) {
		_, err := s.ExtractMetadata([]byte("plain text upload"))
		assert.ErrorIs(t, err, ErrNotPDF)
	})
}
