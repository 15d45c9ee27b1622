package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	t.Parallel()

	e := NewExtractor()

	text, err := e.Extract("paper.txt", []byte("Abstract. We prove it."))
	require.NoError(t, err)
	require.Equal(t, "Abstract. We prove it.", text)

	text, err = e.Extract("notes.md", []byte("# Draft\nbody"))
	require.NoError(t, err)
	require.Equal(t, "# Draft\nbody", text)
}

func TestExtractEmptyDocument(t *testing.T) {
	t.Parallel()

	e := NewExtractor()

	_, err := e.Extract("paper.pdf", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")
}

func TestExtractBogusPDF(t *testing.T) {
	t.Parallel()

	e := NewExtractor()

	// Correct extension, missing header.
	_, err := e.Extract("paper.pdf", []byte("plain text pretending"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a valid PDF")

	// Correct header, truncated body.
	_, err = e.Extract("paper.pdf", []byte("%PDF-1.7\ngarbage"))
	require.Error(t, err)
}

func TestExtractUnsupportedType(t *testing.T) {
	t.Parallel()

	e := NewExtractor()

	_, err := e.Extract("paper.docx", []byte{0x50, 0x4b, 0x03, 0x04})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported document type")
}

func TestSniffingBeatsExtension(t *testing.T) {
	t.Parallel()

	e := NewExtractor()

	// A PDF renamed to .txt is still parsed as a PDF, so truncated
	// bytes fail instead of passing through as text.
	_, err := e.Extract("paper.txt", []byte("%PDF-1.4\nbroken"))
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "pdf") ||
		strings.Contains(err.Error(), "PDF"))
}
