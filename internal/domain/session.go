package domain

import "time"

// User roles recognized by the route guards.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the platform's view of an account. Admin screens use IsActive to
// block and unblock customers.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Session is the client-held record of an authenticated identity plus its
// bearer credential, persisted locally so reloads keep the user signed in.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Session) IsAdmin() bool {
	return s.User.Role == RoleAdmin
}

// IsExpired reports whether the session has passed its expiry time.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().UTC().After(s.ExpiresAt)
}
