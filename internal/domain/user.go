package domain

import "time"

// User is a stored account. PasswordHash never leaves the store layer.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PhotoURL     string
	PasswordHash string
	CreatedAt    time.Time
}

// AuthUser is the read-only session projection handed to clients.
// It mirrors what the popup and web app cache locally.
type AuthUser struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// Session returns the client-facing projection of a user.
func (u *User) Session() AuthUser {
	return AuthUser{
		UID:         u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
	}
}
