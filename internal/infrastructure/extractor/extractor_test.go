package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Col A</w:t><w:tab/><w:t>Col B</w:t></w:r></w:p>
    <w:p></w:p>
    <w:p><w:r><w:t>Last &amp; final</w:t></w:r></w:p>
    <w:sectPr/>
  </w:body>
</w:document>`

func TestExtract_PlainUTF8(t *testing.T) {
	e := NewTextExtractor()

	got, err := e.Extract(context.Background(), []byte("héllo\nworld\n"), "notes.txt")

	require.NoError(t, err)
	assert.Equal(t, "héllo\nworld\n", got)
}

func TestExtract_UnknownExtensionWithText(t *testing.T) {
	got, err := NewTextExtractor().Extract(context.Background(), []byte("key = value"), "settings.conf")

	require.NoError(t, err)
	assert.Equal(t, "key = value", got)
}

func TestExtract_UTF8BOM_Stripped(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2")...)

	got, err := NewTextExtractor().Extract(context.Background(), raw, "data.csv")

	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2", got)
}

func TestExtract_UTF16(t *testing.T) {
	cases := map[string][]byte{
		"little endian": {0xFF, 0xFE, 'h', 0x00, 'i', 0x00},
		"big endian":    {0xFE, 0xFF, 0x00, 'h', 0x00, 'i'},
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := NewTextExtractor().Extract(context.Background(), raw, "hi.txt")

			require.NoError(t, err)
			assert.Equal(t, "hi", got)
		})
	}
}

func TestExtract_UTF16OddLength_DecodingError(t *testing.T) {
	_, err := NewTextExtractor().Extract(context.Background(), []byte{0xFF, 0xFE, 'h', 0x00, 'i'}, "hi.txt")

	assert.True(t, apperror.Is(err, apperror.CodeDecoding))
}

func TestExtract_Windows1252Fallback(t *testing.T) {
	// 0xE9 = é, 0x80 = €
	got, err := NewTextExtractor().Extract(context.Background(), []byte{'c', 'a', 'f', 0xE9, ' ', 0x80}, "menu.txt")

	require.NoError(t, err)
	assert.Equal(t, "café €", got)
}

func TestExtract_BinaryExtension_Unsupported(t *testing.T) {
	for _, name := range []string{"scan.pdf", "photo.JPG", "archive.zip", "tool.exe"} {
		_, err := NewTextExtractor().Extract(context.Background(), []byte("whatever"), name)
		assert.True(t, apperror.Is(err, apperror.CodeUnsupportedFormat), name)
	}
}

func TestExtract_NULBytes_Unsupported(t *testing.T) {
	_, err := NewTextExtractor().Extract(context.Background(), []byte{'a', 0x00, 'b'}, "blob.dat")

	assert.True(t, apperror.Is(err, apperror.CodeUnsupportedFormat))
}

func TestExtract_NULAfterByteOrderMark_Unsupported(t *testing.T) {
	cases := map[string][]byte{
		"utf-8 bom":            {0xEF, 0xBB, 0xBF, 'a', 0x00, 'b'},
		"utf-16 little endian": {0xFF, 0xFE, 'a', 0x00, 0x00, 0x00, 'b', 0x00},
		"utf-16 big endian":    {0xFE, 0xFF, 0x00, 'a', 0x00, 0x00, 0x00, 'b'},
		"windows-1252":         {0x93, 'a', 0x00, 0x94},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTextExtractor().Extract(context.Background(), raw, "notes.txt")

			assert.True(t, apperror.Is(err, apperror.CodeUnsupportedFormat))
		})
	}
}

func TestExtract_Docx(t *testing.T) {
	raw := buildDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   documentXML,
	})

	got, err := NewTextExtractor().Extract(context.Background(), raw, "report.docx")

	require.NoError(t, err)
	assert.Equal(t, "First paragraph\nCol A\tCol B\n\nLast & final", got)
}

func TestExtract_Docx_Malformed(t *testing.T) {
	cases := map[string][]byte{
		"not a zip":    []byte("plain text pretending"),
		"missing body": buildDocx(t, map[string]string{"word/styles.xml": "<styles/>"}),
		"broken xml":   buildDocx(t, map[string]string{"word/document.xml": "<w:document><w:p>"}),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTextExtractor().Extract(context.Background(), raw, "broken.docx")
			assert.True(t, apperror.Is(err, apperror.CodeDecoding))
		})
	}
}

func TestExtract_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTextExtractor().Extract(ctx, []byte("x"), "x.txt")

	assert.ErrorIs(t, err, context.Canceled)
}
