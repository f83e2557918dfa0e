package domain

import "time"

// User is a persisted account in the credential store.
type User struct {
	ID           string    `json:"id"`
	Fullname     string    `json:"fullname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity returns the non-secret view of u. The token is left empty; callers
// that issue one attach it themselves.
func (u *User) Identity() *Identity {
	if u == nil {
		return nil
	}
	return &Identity{
		ID:       u.ID,
		Fullname: u.Fullname,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}

// Identity is the client-held representation of an authenticated user.
// A nil *Identity means "logged out".
type Identity struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	Token    string `json:"token,omitempty"`
}
