package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	applog "github.com/abhishek070702/Safe-Heaven/internal/infra/logger"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, accountID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs safeheaven.account.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"account_id":    event.AccountID,
		"account_kind":  event.AccountKind,
		"username":      event.Username,
		"email":         applog.MaskEmail(event.Email),
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("safeheaven.account.registered", event.AccountID, event.RegisteredAt, payload)
	return nil
}

// PublishOperatorModerated logs safeheaven.operator.moderated events.
func (p *StubPublisher) PublishOperatorModerated(_ context.Context, event domain.OperatorModeratedEvent) error {
	payload := map[string]any{
		"operator_id":      event.OperatorID,
		"home_name":        event.HomeName,
		"approval_status":  string(event.ApprovalStatus),
		"rejection_reason": event.RejectionReason,
		"decided_at":       event.DecidedAt,
	}
	p.logEvent("safeheaven.operator.moderated", event.OperatorID, event.DecidedAt, payload)
	return nil
}

// PublishAccountBlocked logs safeheaven.account.blocked events.
func (p *StubPublisher) PublishAccountBlocked(_ context.Context, event domain.AccountBlockedEvent) error {
	payload := map[string]any{
		"account_id":   event.AccountID,
		"account_kind": event.AccountKind,
		"blocked":      event.Blocked,
		"changed_at":   event.ChangedAt,
	}
	p.logEvent("safeheaven.account.blocked", event.AccountID, event.ChangedAt, payload)
	return nil
}

// PublishAccountDeleted logs safeheaven.account.deleted events.
func (p *StubPublisher) PublishAccountDeleted(_ context.Context, event domain.AccountDeletedEvent) error {
	payload := map[string]any{
		"account_id":   event.AccountID,
		"account_kind": event.AccountKind,
		"deleted_at":   event.DeletedAt,
	}
	p.logEvent("safeheaven.account.deleted", event.AccountID, event.DeletedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
