package domain

import "time"

// Admin is an administrator account. Admins cannot be blocked.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PrincipalID implements the authentication guard contract.
func (a *Admin) PrincipalID() string { return a.ID }

// Blocked implements the authentication guard contract.
func (a *Admin) Blocked() bool { return false }
