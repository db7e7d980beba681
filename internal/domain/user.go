package domain

import "time"

// UserRole differentiates end-users from support staff.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAgent UserRole = "agent"
	RoleAdmin UserRole = "admin"
)

// User is the domain model for anyone who signs in: requesters, support
// agents and administrators.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff reports whether the user may act on tickets they did not create.
func (u *User) IsStaff() bool {
	return u.Role == RoleAgent || u.Role == RoleAdmin
}
