package service

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
	"github.com/shruthikaa3007/secure-document-vault/internal/errs"
)

// MaxUploadSize caps uploaded payloads at 10 MiB.
const MaxUploadSize = 10 << 20

// maxFileNameLength bounds user-supplied display names.
const maxFileNameLength = 255

// allowedMimeTypes is the upload allow-list. The detected type (by
// extension, falling back to the declared type) must appear here.
var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/jpeg":               {},
	"image/png":                {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-powerpoint":                                     {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain":                   {},
	"application/zip":              {},
	"application/x-zip-compressed": {},
}

// DetectMimeType resolves the effective MIME type for a file name: the type
// registered for its extension, or the declared type when the extension is
// unknown.
func DetectMimeType(originalName, declared string) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(originalName))); byExt != "" {
		// TypeByExtension may append parameters such as charset.
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return declared
}

// validateUpload applies the metadata schema checks and normalizes defaults
// in place. Field-level messages are collected so the caller sees everything
// wrong at once.
func validateUpload(input *UploadInput) error {
	if input.TempPath == "" {
		return errs.Validation("No file uploaded")
	}

	var details []string

	if input.OriginalName == "" {
		details = append(details, "Original file name is required")
	}
	if input.FileName == "" {
		input.FileName = input.OriginalName
	}
	if len(input.FileName) > maxFileNameLength {
		details = append(details, "File name cannot exceed 255 characters")
	}
	for _, tag := range input.Tags {
		if strings.TrimSpace(tag) == "" {
			details = append(details, "Tags must be non-empty strings")
			break
		}
	}
	if input.Classification == "" {
		input.Classification = string(domain.ClassificationInternal)
	}
	if !domain.ValidClassification(domain.Classification(input.Classification)) {
		details = append(details, "Classification must be one of Public, Internal, Confidential, Restricted")
	}
	if input.Size > MaxUploadSize {
		details = append(details, "File exceeds the 10MB size limit")
	}

	if input.DetectedType == "" {
		input.DetectedType = DetectMimeType(input.OriginalName, input.MimeType)
	}
	if _, ok := allowedMimeTypes[input.DetectedType]; !ok {
		details = append(details, "Unsupported file type: "+input.DetectedType)
	}

	if len(details) > 0 {
		return errs.Validation("Validation error", details...)
	}
	return nil
}

// validateUpdate applies the schema checks for metadata mutation.
func validateUpdate(input UpdateInput) error {
	var details []string

	if input.FileName != nil {
		if *input.FileName == "" {
			details = append(details, "File name cannot be empty")
		}
		if len(*input.FileName) > maxFileNameLength {
			details = append(details, "File name cannot exceed 255 characters")
		}
	}
	for _, tag := range input.Tags {
		if strings.TrimSpace(tag) == "" {
			details = append(details, "Tags must be non-empty strings")
			break
		}
	}
	if input.Classification != nil && !domain.ValidClassification(domain.Classification(*input.Classification)) {
		details = append(details, "Classification must be one of Public, Internal, Confidential, Restricted")
	}

	if len(details) > 0 {
		return errs.Validation("Validation error", details...)
	}
	return nil
}
