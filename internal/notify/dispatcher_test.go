package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
)

type recordingNotificationRepo struct {
	mu      sync.Mutex
	created []*domain.Notification
}

func (r *recordingNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	r.created = append(r.created, n)
	return nil
}

func (r *recordingNotificationRepo) ListByRecipient(context.Context, string, int, int) ([]*domain.Notification, error) {
	return nil, nil
}

func (r *recordingNotificationRepo) ListAdmin(context.Context, int, int) ([]*domain.Notification, error) {
	return nil, nil
}

func (r *recordingNotificationRepo) MarkRead(context.Context, uuid.UUID, string) error {
	return nil
}

func (r *recordingNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

func TestDispatcherPersistsEvents(t *testing.T) {
	repo := &recordingNotificationRepo{}
	d := NewDispatcher(&repository.Repositories{Notification: repo}, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Emit(Event{
		RecipientID: "user-1",
		Scope:       domain.NotificationScopePersonal,
		Type:        "order_status_changed",
		Title:       "Order update",
		Message:     "Your order is now confirmed",
	})
	d.Emit(Event{
		Scope:   domain.NotificationScopeAdmin,
		Type:    "quote_created",
		Title:   "New quotation request",
		Message: "Quotation QT-2025-0001 submitted",
	})

	require.Eventually(t, func() bool { return repo.count() == 2 }, time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, "user-1", repo.created[0].RecipientID)
	assert.Equal(t, domain.NotificationScopePersonal, repo.created[0].Scope)
	assert.Equal(t, domain.NotificationScopeAdmin, repo.created[1].Scope)
}

func TestEmitNeverBlocks(t *testing.T) {
	repo := &recordingNotificationRepo{}
	// No Run loop draining; overfill the queue and return anyway
	d := NewDispatcher(&repository.Repositories{Notification: repo}, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			d.Emit(Event{Type: "order_created"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full queue")
	}
}
