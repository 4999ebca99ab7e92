package model

import "time"

// User represents a registered player account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the account view returned to clients (no credentials).
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public returns the client-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	cp := *u
	return &cp
}
