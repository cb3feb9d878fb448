package service

import (
	"path/filepath"
	"strings"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
)

// mimeToExt maps stored MIME types to a default extension for download
// responses whose name lacks one.
var mimeToExt = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"application/vnd.ms-powerpoint":                                     ".ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
	"text/plain":                   ".txt",
	"text/csv":                     ".csv",
	"text/html":                    ".html",
	"image/jpeg":                   ".jpg",
	"image/png":                    ".png",
	"image/gif":                    ".gif",
	"application/zip":              ".zip",
	"application/x-rar-compressed": ".rar",
}

// downloadFileName determines the name a downloaded document is served
// under: the original upload name, then the display name, then a generated
// fallback; an extension inferred from the MIME type when missing; and a
// restricted character set safe for response headers.
func downloadFileName(doc *domain.Document) string {
	name := doc.OriginalName
	if name == "" {
		name = doc.FileName
	}
	if name == "" {
		name = "document-" + doc.ID.Hex()
	}

	if filepath.Ext(name) == "" && doc.MimeType != "" {
		if ext, ok := mimeToExt[doc.MimeType]; ok {
			name += ext
		}
	}

	return sanitizeFileName(name)
}

// sanitizeFileName replaces everything outside letters, digits, underscore,
// hyphen, dot and space with underscores.
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '-', r == '.', r == ' ':
			return r
		}
		return '_'
	}, name)
}

// responseMimeType is the Content-Type a download is served with.
func responseMimeType(doc *domain.Document) string {
	if doc.MimeType != "" {
		return doc.MimeType
	}
	return "application/octet-stream"
}
