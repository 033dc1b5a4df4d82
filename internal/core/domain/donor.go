package domain

import "time"

// Donor is a registered donor account.
type Donor struct {
	ID            string
	FullName      string
	Username      string
	Email         string
	Address       string
	ContactNumber string
	Description   string
	PasswordHash  string
	ProfilePhoto  string
	IsBlocked     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DefaultProfilePhoto is stored when a registration carries no photo upload.
const DefaultProfilePhoto = "default-profile.jpg"

// PrincipalID implements the authentication guard contract.
func (d *Donor) PrincipalID() string { return d.ID }

// Blocked implements the authentication guard contract.
func (d *Donor) Blocked() bool { return d.IsBlocked }
