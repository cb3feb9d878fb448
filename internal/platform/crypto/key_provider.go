package crypto

import (
	"github.com/shruthikaa3007/secure-document-vault/internal/errs"
)

// KeyLength is the required length of the configured at-rest secret, in
// bytes. The secret string is used directly as AES-256 material.
const KeyLength = 32

// KeyProvider supplies the at-rest symmetric key. The version parameter
// leaves room for keyed-by-version lookup should rotation ever be
// introduced; today only version 0 exists and all blobs are implicitly
// written under it.
type KeyProvider interface {
	Key(version int) ([]byte, error)
}

// StaticKeyProvider holds the single process-wide key loaded from
// configuration. It is read-only after construction and safe for concurrent
// use. Losing or changing the secret makes every previously encrypted
// document unrecoverable.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider validates the configured secret and wraps it as
// version-0 key material. An absent or wrongly sized secret is a fatal
// configuration condition for anything touching the encryption subsystem.
func NewStaticKeyProvider(secret string) (*StaticKeyProvider, error) {
	if len(secret) != KeyLength {
		return nil, errs.Configuration("Invalid encryption key. Must be 32 characters long.")
	}
	return &StaticKeyProvider{key: []byte(secret)}, nil
}

// Key returns the key material for the given version. Only version 0 exists.
func (p *StaticKeyProvider) Key(version int) ([]byte, error) {
	if version != 0 {
		return nil, errs.Configuration("Unknown encryption key version.")
	}
	return p.key, nil
}
