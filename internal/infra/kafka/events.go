package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	AccountID string           `json:"account_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, accountID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		AccountID: accountID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: envelopeMetadata{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAccountRegistered publishes safeheaven.account.registered events.
func (p *EventPublisher) PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error {
	payload := struct {
		AccountID    string    `json:"account_id"`
		AccountKind  string    `json:"account_kind"`
		Username     string    `json:"username"`
		Email        string    `json:"email,omitempty"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		AccountID:    event.AccountID,
		AccountKind:  event.AccountKind,
		Username:     event.Username,
		Email:        event.Email,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "safeheaven.account.registered", event.AccountID, event.RegisteredAt, payload)
}

// PublishOperatorModerated publishes safeheaven.operator.moderated events.
func (p *EventPublisher) PublishOperatorModerated(ctx context.Context, event domain.OperatorModeratedEvent) error {
	payload := struct {
		OperatorID      string    `json:"operator_id"`
		HomeName        string    `json:"home_name"`
		ApprovalStatus  string    `json:"approval_status"`
		RejectionReason string    `json:"rejection_reason,omitempty"`
		DecidedAt       time.Time `json:"decided_at"`
	}{
		OperatorID:      event.OperatorID,
		HomeName:        event.HomeName,
		ApprovalStatus:  string(event.ApprovalStatus),
		RejectionReason: event.RejectionReason,
		DecidedAt:       event.DecidedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "safeheaven.operator.moderated", event.OperatorID, event.DecidedAt, payload)
}

// PublishAccountBlocked publishes safeheaven.account.blocked events.
func (p *EventPublisher) PublishAccountBlocked(ctx context.Context, event domain.AccountBlockedEvent) error {
	payload := struct {
		AccountID   string    `json:"account_id"`
		AccountKind string    `json:"account_kind"`
		Blocked     bool      `json:"blocked"`
		ChangedAt   time.Time `json:"changed_at"`
	}{
		AccountID:   event.AccountID,
		AccountKind: event.AccountKind,
		Blocked:     event.Blocked,
		ChangedAt:   event.ChangedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "safeheaven.account.blocked", event.AccountID, event.ChangedAt, payload)
}

// PublishAccountDeleted publishes safeheaven.account.deleted events.
func (p *EventPublisher) PublishAccountDeleted(ctx context.Context, event domain.AccountDeletedEvent) error {
	payload := struct {
		AccountID   string    `json:"account_id"`
		AccountKind string    `json:"account_kind"`
		DeletedAt   time.Time `json:"deleted_at"`
	}{
		AccountID:   event.AccountID,
		AccountKind: event.AccountKind,
		DeletedAt:   event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "safeheaven.account.deleted", event.AccountID, event.DeletedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
