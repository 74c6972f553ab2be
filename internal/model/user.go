package model

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Account represents a user account in the system
type Account struct {
	ID            int        `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"` // Do not expose password hash in JSON responses
	Name          string     `json:"name"`
	Balance       int64      `json:"balance"` // In cents
	Role          string     `json:"role"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Identity is the projection of an Account carried in session tokens and
// returned by /auth/session-info. Every component that reads or writes
// identity/role data shares this one type.
type Identity struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// IdentityOf projects an Account into an Identity. Role defaults to student
// for records created before the role column existed.
func IdentityOf(a *Account) Identity {
	role := a.Role
	if role == "" {
		role = RoleStudent
	}
	return Identity{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  role,
	}
}
