package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/common"
)

// Credential is one stored login. SecretEncoded holds the codec output, never
// the plaintext. Platform mirrors Title.
type Credential struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Username      string    `json:"username"`
	SecretEncoded string    `json:"password_encrypted"`
	Platform      string    `json:"platform"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CredentialInput is what the user types when adding or editing a credential.
type CredentialInput struct {
	Title    string
	Username string
	Secret   string
}

func (in CredentialInput) Normalize() CredentialInput {
	return CredentialInput{
		Title:    strings.TrimSpace(in.Title),
		Username: strings.TrimSpace(in.Username),
		Secret:   in.Secret,
	}
}

// Validate requires all three fields. The secret is checked as typed, so a
// password of spaces is allowed.
func (in CredentialInput) Validate() error {
	switch {
	case in.Title == "":
		return common.NewValidationError("title", "is required")
	case in.Username == "":
		return common.NewValidationError("username", "is required")
	case in.Secret == "":
		return common.NewValidationError("password", "is required")
	}
	return nil
}

// ValidateStored checks a record arriving at the server.
func (c *Credential) ValidateStored() error {
	switch {
	case strings.TrimSpace(c.Title) == "":
		return common.NewValidationError("title", "is required")
	case strings.TrimSpace(c.Username) == "":
		return common.NewValidationError("username", "is required")
	case c.SecretEncoded == "":
		return common.NewValidationError("password", "is required")
	}
	return nil
}
