// Package secretbox seals short secrets (the API credential) before they are
// written to the local database. The key is derived from a stable host
// fingerprint, so a copied database file does not expose the credential in
// plain text on another machine.
//
// This is obfuscation against casual inspection, not a security boundary:
// anyone who can run code as this user can derive the same key.
package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/crypto/pbkdf2"
)

const (
	salt       = "go-factory-v1"
	iterations = 100000
	keyLen     = 32
	nonceLen   = 12
)

// fingerprint returns a stable per-host identifier. Only the first 20 bytes
// feed key derivation, so minor tail differences do not change the key.
func fingerprint() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown-host"
	}
	fp := host + "-" + runtime.GOOS
	if len(fp) > 20 {
		fp = fp[:20]
	}
	return fp
}

func deriveKey() []byte {
	return pbkdf2.Key([]byte(salt+fingerprint()), []byte(salt), iterations, keyLen, sha256.New)
}

// Protect seals plaintext and returns base64(nonce||ciphertext). A fresh
// nonce is drawn per call, so sealing the same value twice yields different
// blobs. Returns ok=false on any failure; never panics.
func Protect(plaintext string) (string, bool) {
	aead, ok := newAEAD()
	if !ok {
		return "", false
	}
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		slog.Warn("secretbox seal failed", "error", err)
		return "", false
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), true
}

// Unprotect reverses Protect. Returns ok=false for malformed base64,
// truncated blobs, or authentication failures (including blobs sealed on a
// different host).
func Unprotect(blob string) (string, bool) {
	aead, ok := newAEAD()
	if !ok {
		return "", false
	}
	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		slog.Warn("secretbox open failed", "error", err)
		return "", false
	}
	if len(sealed) < nonceLen {
		slog.Warn("secretbox open failed", "error", "blob too short")
		return "", false
	}
	plaintext, err := aead.Open(nil, sealed[:nonceLen], sealed[nonceLen:], nil)
	if err != nil {
		slog.Warn("secretbox open failed", "error", err)
		return "", false
	}
	return string(plaintext), true
}

func newAEAD() (cipher.AEAD, bool) {
	block, err := aes.NewCipher(deriveKey())
	if err != nil {
		slog.Warn("secretbox cipher init failed", "error", err)
		return nil, false
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		slog.Warn("secretbox cipher init failed", "error", err)
		return nil, false
	}
	return aead, true
}
