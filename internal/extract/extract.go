// Package extract pulls plaintext out of uploaded files for the
// auto-tagger. Extraction is best-effort: an unsupported format or
// a parse failure yields empty text, never an upload failure.
package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Text extracts plaintext from the file at path, keyed by the extension of
// originalName. Plain-text families are read directly; DOCX and XLSX are
// unpacked from their XML parts. Anything else (including PDF) returns empty
// text without an error.
func Text(path, originalName string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(originalName)); ext {
	case ".txt", ".csv", ".json", ".js", ".py", ".html", ".css":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(data), nil
	case ".docx":
		return docxText(path)
	case ".xlsx":
		return xlsxText(path)
	default:
		return "", nil
	}
}

// docxText reads the main document part of a DOCX archive and flattens its
// runs, one line per paragraph.
func docxText(path string) (string, error) {
	part, err := readZipPart(path, "word/document.xml")
	if err != nil {
		return "", err
	}
	defer part.Close()

	var sb strings.Builder
	decoder := xml.NewDecoder(part)
	inRun := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inRun {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// xlsxText reads the shared string table of an XLSX archive, which holds
// every distinct cell text in the workbook.
func xlsxText(path string) (string, error) {
	part, err := readZipPart(path, "xl/sharedStrings.xml")
	if err != nil {
		return "", err
	}
	defer part.Close()

	var sb strings.Builder
	decoder := xml.NewDecoder(part)
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse sharedStrings.xml: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// zipPart couples a part reader with its parent archive so both close together.
type zipPart struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (p *zipPart) Close() error {
	err := p.ReadCloser.Close()
	if cerr := p.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

func readZipPart(path, name string) (io.ReadCloser, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	for _, f := range archive.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				archive.Close()
				return nil, fmt.Errorf("failed to open %s: %w", name, err)
			}
			return &zipPart{ReadCloser: rc, archive: archive}, nil
		}
	}
	archive.Close()
	return nil, fmt.Errorf("archive has no %s part", name)
}
