// Package telemetry records operational events emitted by the advisor.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/sagaforge/counsel/internal/platform/id"
	"github.com/sagaforge/counsel/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, severity Severity, event string, attributes map[string]string) error {
	if e == nil || e.store == nil {
		return nil
	}
	now := time.Now().UTC()
	if e.clock != nil {
		now = e.clock().UTC()
	}
	eventID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("generate telemetry event id: %w", err)
	}
	return e.store.AppendTelemetryEvent(ctx, storage.TelemetryEvent{
		ID:         eventID,
		Timestamp:  now,
		Severity:   string(severity),
		Event:      event,
		Attributes: attributes,
	})
}
