package models

// User is the public part of an account. The password hash never leaves the
// server.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Session is the signed-in user as persisted on the client between runs.
type Session struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Token    string `json:"token,omitempty"`
}

func (s *Session) User() User {
	return User{ID: s.ID, Email: s.Email, FullName: s.FullName}
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (r *AuthResult) Session() *Session {
	return &Session{ID: r.User.ID, Email: r.User.Email, FullName: r.User.FullName, Token: r.Token}
}
