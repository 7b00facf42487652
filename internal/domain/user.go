package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles a user can hold. Every authorization
// decision in the system consults only this field.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

// String returns the role as a plain string.
func (r Role) String() string {
	return string(r)
}

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	StoreName    *string   `json:"store_name,omitempty" db:"store_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
