package domain

import "time"

// Identity is what the identity provider vouches for after a successful
// sign-in.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Session is a signed-in browser session. Role is the stored role read at
// sign-in; workspaces refresh it from the directory afterwards.
type Session struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Identity() Identity {
	return Identity{UID: s.UID, DisplayName: s.Name, Email: s.Email}
}
