package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
)

// Event is a notification emitted by a lifecycle service. Delivery is
// best-effort: the emitting mutation has already been persisted and never
// waits on, or rolls back for, the outcome here.
type Event struct {
	RecipientID string
	Scope       domain.NotificationScope
	Type        string
	Title       string
	Message     string
	URL         *string
}

// Dispatcher drains emitted events on a single goroutine, persisting each as
// a Notification row and pushing it to connected websocket clients. Failures
// are logged and swallowed.
type Dispatcher struct {
	events chan Event
	repos  *repository.Repositories
	hub    *Hub
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher with a buffered event queue
func NewDispatcher(repos *repository.Repositories, hub *Hub, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		events: make(chan Event, 256),
		repos:  repos,
		hub:    hub,
		logger: logger,
	}
}

// Emit enqueues an event without blocking the caller. When the queue is full
// the event is dropped and logged; there are no retries.
func (d *Dispatcher) Emit(event Event) {
	select {
	case d.events <- event:
	default:
		d.logger.Warn("Notification queue full, dropping event",
			zap.String("type", event.Type),
			zap.String("recipient_id", event.RecipientID),
		)
	}
}

// Run processes events until the context is cancelled
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.deliver(ctx, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event Event) {
	n := &domain.Notification{
		RecipientID: event.RecipientID,
		Scope:       event.Scope,
		Type:        event.Type,
		Title:       event.Title,
		Message:     event.Message,
		URL:         event.URL,
	}

	if err := d.repos.Notification.Create(ctx, n); err != nil {
		d.logger.Error("Failed to persist notification",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("recipient_id", event.RecipientID),
		)
		// Still try the live push; the in-app feed just won't have it
	}

	if d.hub != nil {
		d.hub.Broadcast(event.Type, n)
	}
}
