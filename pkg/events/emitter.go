// Package events publishes change events for friends, pets and quotes.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/appctx"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

const (
	EntityFriend = "friend"
	EntityPet    = "pet"
	EntityQuote  = "quote"
	EntitySeed   = "seed"
)

// Publisher is the transport behind the Emitter.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte, headers map[string]string) error
}

type ChangeEvent struct {
	SchemaVersion string    `json:"schemaVersion"`
	EventType     string    `json:"eventType"`
	EntityType    string    `json:"entityType"`
	EntityID      string    `json:"entityId"`
	Seeded        bool      `json:"seeded"`
	UserID        string    `json:"userId,omitempty"`
	RequestID     string    `json:"requestId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
	Data          any       `json:"data,omitempty"`
}

type Emitter struct {
	publisher Publisher
	logger    ectologger.Logger
}

func NewEmitter(publisher Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
	}
}

// Emit publishes an "<entity>.<action>" event keyed by entity id. Failures are
// logged and returned; the write that caused the event is already committed.
func (e *Emitter) Emit(ctx context.Context, entityType, action, entityID string, seeded bool, data any) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.Emit")
	defer span.End()

	event := ChangeEvent{
		SchemaVersion: SchemaVersion,
		EventType:     entityType + "." + action,
		EntityType:    entityType,
		EntityID:      entityID,
		Seeded:        seeded,
		UserID:        appctx.GetUserID(ctx),
		RequestID:     appctx.GetRequestID(ctx),
		OccurredAt:    time.Now().UTC(),
		Data:          data,
	}

	value, err := json.Marshal(event)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	headers := map[string]string{"event_type": event.EventType}
	if traceParent := tracing.GetTraceParent(ctx); traceParent != "" {
		headers["traceparent"] = traceParent
	}

	if err := e.publisher.Publish(ctx, entityID, value, headers); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(event.EventType, "error").Inc()
		tracing.RecordError(span, err)
		e.logger.WithContext(ctx).WithError(err).Errorf("Failed to emit %s event", event.EventType)
		return err
	}

	metrics.EventsPublishedTotal.WithLabelValues(event.EventType, "ok").Inc()
	return nil
}

// NoopPublisher drops events, used when kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte, map[string]string) error {
	return nil
}
