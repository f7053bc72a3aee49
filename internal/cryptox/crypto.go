// Package cryptox holds the cryptographic primitives used by PassKeeper:
// argon2id key derivation, AES-GCM sealing and bcrypt password hashes.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// legacyHashSalt is appended to the password by the legacy account hash.
const legacyHashSalt = "secret_salt_key_2024"

// ErrCiphertextTooShort is returned by Open for input shorter than a nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveMasterKey derives a 32-byte AES key from password and salt with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM under key. The random nonce is
// prepended to the returned ciphertext.
//
// The key must be 16, 24 or 32 bytes long.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. It fails if the data was not produced under key or
// was modified.
func Open(sealed, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aesgcm.NonceSize()
	if len(sealed) < ns {
		return nil, ErrCiphertextTooShort
	}

	return aesgcm.Open(nil, sealed[:ns], sealed[ns:], nil)
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// LegacyHash reproduces the account hash written by the first version of the
// service: base64 of the password followed by a fixed salt.
func LegacyHash(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password + legacyHashSalt))
}

// IsBcryptHash reports whether hash looks like a bcrypt hash.
func IsBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

// CheckPassword verifies password against a stored hash, bcrypt or legacy.
// legacy is true when the match was made against a legacy hash, in which
// case the caller should store a fresh bcrypt hash.
func CheckPassword(hash, password string) (ok bool, legacy bool) {
	if IsBcryptHash(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, false
	}

	candidate := LegacyHash(password)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(candidate)) == 1 {
		return true, true
	}
	return false, false
}
