package codec

import (
	"encoding/base64"
	"strings"
)

// LegacySuffix is the marker appended to every plaintext before encoding.
const LegacySuffix = "password_salt_2024"

type Legacy struct{}

func NewLegacy() Legacy {
	return Legacy{}
}

func (Legacy) Encode(plaintext string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(plaintext + LegacySuffix)), nil
}

func (Legacy) Decode(stored string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return stored, false
	}

	plain, found := strings.CutSuffix(string(raw), LegacySuffix)
	if !found {
		return stored, false
	}
	return plain, true
}
