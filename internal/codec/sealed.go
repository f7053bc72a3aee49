package codec

import (
	"encoding/base64"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/cryptox"
)

// SealedPrefix marks values written by Sealed.
const SealedPrefix = "v2:"

// Sealed encrypts secrets with AES-256-GCM. The key is derived from the vault
// passphrase with the user id as salt, so the same passphrase gives every
// user a different key.
type Sealed struct {
	key    []byte
	legacy Legacy
}

func NewSealed(passphrase, userID string) *Sealed {
	return &Sealed{key: cryptox.DeriveMasterKey([]byte(passphrase), []byte(userID))}
}

func (s *Sealed) Encode(plaintext string) (string, error) {
	sealed, err := cryptox.Seal([]byte(plaintext), s.key)
	if err != nil {
		return "", err
	}
	return SealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *Sealed) Decode(stored string) (string, bool) {
	body, found := strings.CutPrefix(stored, SealedPrefix)
	if !found {
		return s.legacy.Decode(stored)
	}

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return stored, false
	}

	plain, err := cryptox.Open(raw, s.key)
	if err != nil {
		return stored, false
	}
	return string(plain), true
}

// IsSealed reports whether stored was written by Sealed.
func IsSealed(stored string) bool {
	return strings.HasPrefix(stored, SealedPrefix)
}

// ForUser picks the codec for one signed-in user: Sealed when a vault
// passphrase is configured, Legacy otherwise.
func ForUser(passphrase, userID string) SecretCodec {
	if passphrase == "" {
		return NewLegacy()
	}
	return NewSealed(passphrase, userID)
}
