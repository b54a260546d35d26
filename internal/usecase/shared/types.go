package shared

import (
	"github.com/google/uuid"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Caller is the authenticated user a command runs on behalf of.
type Caller struct {
	UserID uuid.UUID
	Role   string
	Name   string
	Email  string
	Phone  string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAccess is true for the owner and for admins.
func (c Caller) CanAccess(ownerID uuid.UUID) bool {
	return c.IsAdmin() || c.UserID == ownerID
}
