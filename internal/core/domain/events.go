package domain

import "time"

// AccountRegisteredEvent is published when any account kind is created.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	AccountKind  string
	Username     string
	Email        string
	RegisteredAt time.Time
}

// OperatorModeratedEvent is published on an administrator approval decision.
type OperatorModeratedEvent struct {
	EventID         string
	OperatorID      string
	HomeName        string
	ApprovalStatus  ApprovalStatus
	RejectionReason string
	DecidedAt       time.Time
}

// AccountBlockedEvent is published when an administrator toggles blocking.
type AccountBlockedEvent struct {
	EventID     string
	AccountID   string
	AccountKind string
	Blocked     bool
	ChangedAt   time.Time
}

// AccountDeletedEvent is published on self-requested account deletion.
type AccountDeletedEvent struct {
	EventID     string
	AccountID   string
	AccountKind string
	DeletedAt   time.Time
}
