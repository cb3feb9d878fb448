package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// writeArchive builds an OOXML-style zip with the given parts.
func writeArchive(t *testing.T, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.bin")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestTextPlainFamilies(t *testing.T) {
	for _, name := range []string{"notes.txt", "data.csv", "conf.json", "app.js", "tool.py", "page.html", "style.css"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, []byte("hello extraction"))
			text, err := Text(path, name)
			require.NoError(t, err)
			assert.Equal(t, "hello extraction", text)
		})
	}
}

func TestTextUnsupportedExtensionIsEmpty(t *testing.T) {
	path := writeFile(t, "scan.pdf", []byte("%PDF-1.4 binary payload"))
	text, err := Text(path, "scan.pdf")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestTextExtensionKeyedByOriginalName(t *testing.T) {
	// The file on disk is an opaque temp name; only the original client name
	// carries the extension.
	path := writeFile(t, "temp-123", []byte("keyed by original name"))
	text, err := Text(path, "report.txt")
	require.NoError(t, err)
	assert.Equal(t, "keyed by original name", text)
}

func TestDocxText(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`
	path := writeArchive(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   doc,
	})

	text, err := Text(path, "memo.docx")
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph")
	assert.Contains(t, text, "Second paragraph")
}

func TestXlsxText(t *testing.T) {
	sst := `<?xml version="1.0"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2">
  <si><t>Revenue</t></si>
  <si><t>Q3 forecast</t></si>
</sst>`
	path := writeArchive(t, map[string]string{
		"[Content_Types].xml":  `<Types/>`,
		"xl/sharedStrings.xml": sst,
	})

	text, err := Text(path, "sheet.xlsx")
	require.NoError(t, err)
	assert.Contains(t, text, "Revenue")
	assert.Contains(t, text, "Q3 forecast")
}

func TestDocxMissingPart(t *testing.T) {
	path := writeArchive(t, map[string]string{"other.xml": `<x/>`})
	_, err := Text(path, "broken.docx")
	assert.Error(t, err)
}

func TestDocxNotAnArchive(t *testing.T) {
	path := writeFile(t, "fake.docx", []byte("this is not a zip"))
	_, err := Text(path, "fake.docx")
	assert.Error(t, err)
}
