package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/shruthikaa3007/secure-document-vault/internal/errs"
)

// ComputeHash returns the lowercase hex sha256 digest of everything read
// from r. The digest covers content only; it is the fingerprint stored on a
// document at upload time and checked at download time.
func ComputeHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComputeFileHash hashes the file at path.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()
	return ComputeHash(f)
}

// VerifyFileHash recomputes the digest of the file at path and compares it to
// expected. A mismatch is a hard failure: the caller must abort the download
// and audit the event. An empty expected hash is the caller's signal to skip
// verification entirely; passing one here is an error.
func VerifyFileHash(path, expected string) error {
	computed, err := ComputeFileHash(path)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(computed), []byte(expected)) != 1 {
		return errs.Integrity()
	}
	return nil
}
