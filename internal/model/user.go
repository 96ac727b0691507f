package model

import "time"

// Role is the access level carried in the JWT "role" claim and stored in
// users.role. Only two levels exist: students own their tickets and
// comments, admins can do everything.
type Role string

const (
	RoleStudent Role = "Student"
	RoleAdmin   Role = "Admin"
)

// ParseRole normalizes an incoming role string. Unknown or empty values
// fall back to Student.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleStudent
}

// User represents a row in the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address used as the login handle.
//  PasswordHash – bcrypt hashed password; never leaves the server.
//  Role         – Student or Admin.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
