package models

import (
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/models"
)

// User is the users table row. PasswordHash is bcrypt, or the legacy base64
// form for accounts created before hashes were upgraded.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FullName     string    `db:"full_name"`
	CreatedAt    time.Time `db:"created_at"`
}

// Public strips the hash.
func (u *User) Public() models.User {
	return models.User{ID: u.ID, Email: u.Email, FullName: u.FullName}
}
