package port

import (
	"context"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
)

// EventPublisher publishes account lifecycle events to the message bus.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishOperatorModerated(ctx context.Context, event domain.OperatorModeratedEvent) error
	PublishAccountBlocked(ctx context.Context, event domain.AccountBlockedEvent) error
	PublishAccountDeleted(ctx context.Context, event domain.AccountDeletedEvent) error
}
