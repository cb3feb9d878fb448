// Package storage maps documents to opaque on-disk locations. A locator is
// never related to a user-visible name, which prevents path guessing and
// filename collisions, and it is never serialized in API responses.
package storage

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ContainerKind names one of the shared blob containers.
type ContainerKind string

const (
	ContainerUploads    ContainerKind = "uploads"
	ContainerTemp       ContainerKind = "temp"
	ContainerLogExports ContainerKind = "log-exports"
)

// Locator manages the three backing directories and produces opaque blob
// names. It is stateless apart from the configured base paths and safe for
// concurrent use.
type Locator struct {
	uploadDir    string
	tempDir      string
	logExportDir string
}

// NewLocator creates a Locator over the configured container base paths.
func NewLocator(uploadDir, tempDir, logExportDir string) *Locator {
	return &Locator{
		uploadDir:    uploadDir,
		tempDir:      tempDir,
		logExportDir: logExportDir,
	}
}

// Allocate produces a collision-resistant opaque name for a new encrypted
// blob. The hint (typically the plaintext temp path) only seeds the digest;
// nothing about it is recoverable from the result.
func (l *Locator) Allocate(contextHint string) string {
	sum := md5.Sum([]byte(contextHint + strconv.FormatInt(time.Now().UnixNano(), 10) + uuid.NewString()))
	return hex.EncodeToString(sum[:])
}

// Path resolves a locator to its absolute position in the uploads container.
func (l *Locator) Path(locator string) string {
	return filepath.Join(l.uploadDir, locator)
}

// TempPath returns a fresh unique path inside the temp container, prefixed
// with the given hint for debuggability.
func (l *Locator) TempPath(hint string) string {
	name := fmt.Sprintf("temp-%d-%s", time.Now().UnixMilli(), hint)
	return filepath.Join(l.tempDir, name)
}

// ExportPath resolves a file name inside the log-exports container.
func (l *Locator) ExportPath(name string) string {
	return filepath.Join(l.logExportDir, name)
}

// EnsureContainer idempotently creates the backing directory for the given
// kind. Safe to call repeatedly and from concurrent requests; MkdirAll
// tolerates the directory already existing.
func (l *Locator) EnsureContainer(kind ContainerKind) error {
	dir, err := l.containerDir(kind)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create %s container: %w", kind, err)
	}
	return nil
}

// Remove deletes the blob at the given locator. A blob that is already
// absent is not an error: the caller must still be able to remove the
// document record.
func (l *Locator) Remove(locator string) error {
	err := os.Remove(l.Path(locator))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob %s: %w", locator, err)
	}
	return nil
}

// RemoveTemp deletes a temp file, tolerating its absence. Used by the
// guaranteed-cleanup scopes around every temp-file-producing step.
func (l *Locator) RemoveTemp(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp file: %w", err)
	}
	return nil
}

func (l *Locator) containerDir(kind ContainerKind) (string, error) {
	switch kind {
	case ContainerUploads:
		return l.uploadDir, nil
	case ContainerTemp:
		return l.tempDir, nil
	case ContainerLogExports:
		return l.logExportDir, nil
	}
	return "", fmt.Errorf("unknown container kind %q", kind)
}
