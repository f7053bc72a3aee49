package models

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/common"
)

const (
	// MinRegisterPasswordLength applies to new accounts.
	MinRegisterPasswordLength = 6
	// MinLoginPasswordLength is looser than the register floor; older
	// accounts may carry shorter passwords.
	MinLoginPasswordLength = 3
	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lowercases an email; addresses are unique
// regardless of case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return common.NewValidationError("email", "is required")
	}
	if !emailRe.MatchString(email) {
		return common.NewValidationError("email", "is not a valid address")
	}
	return nil
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	FullName        string `json:"full_name"`
}

func (r RegisterRequest) Normalize() RegisterRequest {
	r.Email = NormalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	return r
}

// Validate checks a normalized request. ConfirmPassword is only checked
// when set; the server never receives it.
func (r RegisterRequest) Validate(checkConfirm bool) error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < MinRegisterPasswordLength {
		return common.NewValidationError("password", "must be at least 6 characters")
	}
	if len(r.Password) > MaxPasswordBytes {
		return common.NewValidationError("password", "must be at most 72 bytes")
	}
	if checkConfirm && r.Password != r.ConfirmPassword {
		return common.NewValidationError("confirm_password", "passwords do not match")
	}
	if r.FullName == "" {
		return common.NewValidationError("full_name", "is required")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Normalize() LoginRequest {
	r.Email = NormalizeEmail(r.Email)
	return r
}

func (r LoginRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < MinLoginPasswordLength {
		return common.NewValidationError("password", "must be at least 3 characters")
	}
	return nil
}
