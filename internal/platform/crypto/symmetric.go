package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shruthikaa3007/secure-document-vault/internal/errs"
)

// Engine encrypts and decrypts document blobs with AES-256-CBC. The wire
// format is IV‖ciphertext: the first 16 bytes of every blob are the random
// initialization vector, the remainder is the PKCS#7-padded ciphertext. There
// is no embedded metadata and no authentication tag; tamper detection relies
// on the per-document content hash, when present.
type Engine struct {
	keys KeyProvider
}

// NewEngine creates an Engine over the given key provider.
func NewEngine(keys KeyProvider) *Engine {
	return &Engine{keys: keys}
}

// GenerateIV creates a new random initialization vector for AES encryption.
func GenerateIV() ([]byte, error) {
	iv := make([]byte, aes.BlockSize) // 16 bytes for AES
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// Encrypt encrypts plaintext under the current key with a fresh random IV.
// The IV is never reused and never derived from content, so encrypting the
// same bytes twice yields different blobs.
func (e *Engine) Encrypt(plaintext []byte) ([]byte, error) {
	key, err := e.keys.Key(0)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.Encryption(fmt.Errorf("failed to create cipher: %w", err))
	}

	iv, err := GenerateIV()
	if err != nil {
		return nil, errs.Encryption(fmt.Errorf("failed to generate IV: %w", err))
	}

	padded, err := pkcs7Pad(plaintext, block.BlockSize())
	if err != nil {
		return nil, errs.Encryption(fmt.Errorf("failed to pad data: %w", err))
	}

	blob := make([]byte, aes.BlockSize+len(padded))
	copy(blob, iv)
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(blob[aes.BlockSize:], padded)

	return blob, nil
}

// Decrypt reverses Encrypt. A blob shorter than one block, a ciphertext that
// is not block-aligned, or invalid padding after decryption all fail: padding
// corruption is a tamper signal, never silently ignored.
func (e *Engine) Decrypt(blob []byte) ([]byte, error) {
	key, err := e.keys.Key(0)
	if err != nil {
		return nil, err
	}

	if len(blob) < aes.BlockSize {
		return nil, errs.Decryption(errors.New("blob is shorter than the IV"))
	}
	iv := blob[:aes.BlockSize]
	ciphertext := blob[aes.BlockSize:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.Decryption(fmt.Errorf("failed to create cipher: %w", err))
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errs.Decryption(errors.New("ciphertext is not a multiple of the block size"))
	}

	mode := cipher.NewCBCDecrypter(block, iv)
	decrypted := make([]byte, len(ciphertext))
	mode.CryptBlocks(decrypted, ciphertext)

	unpadded, err := pkcs7Unpad(decrypted, block.BlockSize())
	if err != nil {
		return nil, errs.Decryption(fmt.Errorf("failed to unpad data: %w", err))
	}

	return unpadded, nil
}

// EncryptFile reads the plaintext at srcPath, writes the encrypted blob to
// dstPath, and removes the plaintext source. Encryption here consumes the
// file: on success no unencrypted copy remains on disk. On failure the source
// is left for the caller's cleanup scope to unlink.
func (e *Engine) EncryptFile(srcPath, dstPath string) error {
	plaintext, err := os.ReadFile(srcPath)
	if err != nil {
		return errs.Encryption(fmt.Errorf("failed to read source file: %w", err))
	}

	blob, err := e.Encrypt(plaintext)
	if err != nil {
		return err
	}

	if err := os.WriteFile(dstPath, blob, 0o600); err != nil {
		return errs.Encryption(fmt.Errorf("failed to write encrypted file: %w", err))
	}

	if err := os.Remove(srcPath); err != nil {
		return errs.Encryption(fmt.Errorf("failed to remove plaintext source: %w", err))
	}
	return nil
}

// DecryptFile reads the encrypted blob at srcPath and writes the recovered
// plaintext to dstPath. A missing blob means the document is in an
// inconsistent state; the caller must fail the download cleanly rather than
// return empty output.
func (e *Engine) DecryptFile(srcPath, dstPath string) error {
	blob, err := os.ReadFile(srcPath)
	if err != nil {
		return errs.Decryption(fmt.Errorf("failed to read encrypted file: %w", err))
	}

	plaintext, err := e.Decrypt(blob)
	if err != nil {
		return err
	}

	if err := os.WriteFile(dstPath, plaintext, 0o600); err != nil {
		return errs.Decryption(fmt.Errorf("failed to write decrypted file: %w", err))
	}
	return nil
}

// --- PKCS#7 Padding Helpers ---

func pkcs7Pad(data []byte, blockSize int) ([]byte, error) {
	if blockSize <= 0 {
		return nil, errors.New("invalid block size")
	}
	padding := blockSize - (len(data) % blockSize)
	padText := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(data, padText...), nil
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if blockSize <= 0 {
		return nil, errors.New("invalid block size")
	}
	if len(data) == 0 {
		return nil, errors.New("cannot unpad empty data")
	}
	if len(data)%blockSize != 0 {
		return nil, errors.New("data is not block-aligned")
	}
	padding := int(data[len(data)-1])
	if padding > blockSize || padding == 0 {
		return nil, errors.New("invalid padding")
	}
	for i := 0; i < padding; i++ {
		if int(data[len(data)-1-i]) != padding {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}
