package domain

import "time"

// ApprovalStatus enumerates the moderation states of an elder-home operator.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// DefaultRejectionReason is stored when an administrator rejects without a reason.
const DefaultRejectionReason = "Application rejected by admin"

// Operator is an elder-home operator account. New registrations start in
// ApprovalPending and become usable only once an administrator approves them.
type Operator struct {
	ID              string
	FullName        string
	Username        string
	Email           string
	Address         string
	ContactNumber   string
	PasswordHash    string
	HomeName        string
	HomeAddress     string
	AccountNumber   string
	Capacity        int
	Description     string
	LicensePath     string
	HomePhotoPaths  []string
	IsBlocked       bool
	ApprovalStatus  ApprovalStatus
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PrincipalID implements the authentication guard contract.
func (o *Operator) PrincipalID() string { return o.ID }

// Blocked implements the authentication guard contract.
func (o *Operator) Blocked() bool { return o.IsBlocked }

// Approved reports whether the operator may use capability-bearing endpoints.
func (o *Operator) Approved() bool { return o.ApprovalStatus == ApprovalApproved }
