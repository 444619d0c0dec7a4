package entity

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID   string
	Role Role
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// CanAccessOrder is the single owner-or-admin policy used by every
// order operation.
func CanAccessOrder(c Caller, o *Order) bool {
	return c.IsAdmin() || c.ID == o.UserID
}
