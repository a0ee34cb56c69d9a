package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering-api/internal/model"
)

// fakeOrderStore keeps orders in memory and can fail updates on demand.
type fakeOrderStore struct {
	orders  map[string]*model.Order
	failIDs map[string]bool
	updates int
}

func (f *fakeOrderStore) FindInStatusOlderThan(_ context.Context, status model.OrderStatus, before time.Time, byCreation bool) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if o.Status != status {
			continue
		}
		ref := o.UpdatedAt
		if byCreation {
			ref = o.CreatedAt
		}
		if ref.Before(before) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id string, status model.OrderStatus, at time.Time) error {
	if f.failIDs[id] {
		return errors.New("store unavailable")
	}
	o, ok := f.orders[id]
	if !ok {
		return errors.New("not found")
	}
	o.Status = status
	o.UpdatedAt = at
	f.updates++
	return nil
}

// fakeNotifier mimics the dedup guard: one record per unique key.
type fakeNotifier struct {
	created []*model.Notification
	seen    map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{seen: map[string]bool{}}
}

func (f *fakeNotifier) NotifyOnce(_ context.Context, userID string, typ model.NotificationType, title, message, relatedID string) (*model.Notification, error) {
	key := fmt.Sprintf("%s|%s|%s|%s", userID, typ, title, relatedID)
	if f.seen[key] {
		return &model.Notification{}, nil
	}
	f.seen[key] = true
	n := &model.Notification{UserID: userID, Type: typ, Title: title, Message: message, RelatedID: relatedID}
	f.created = append(f.created, n)
	return n, nil
}

func testScheduler(store *fakeOrderStore, notifier *fakeNotifier, at time.Time) *Scheduler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewScheduler(store, notifier, nil, nil, testThresholds, time.Minute, log)
	s.now = func() time.Time { return at }
	return s
}

func order(id string, status model.OrderStatus, createdAt, updatedAt time.Time) *model.Order {
	return &model.Order{
		ID:        id,
		UserID:    "user-1",
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

func TestRunPassPromotesEligiblePending(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeOrderStore{orders: map[string]*model.Order{
		"order-000001": order("order-000001", model.StatusPending, now.Add(-3*time.Minute), now.Add(-3*time.Minute)),
	}}
	notifier := newFakeNotifier()
	s := testScheduler(store, notifier, now)

	result := s.RunPass(context.Background())

	assert.Equal(t, 1, result.PendingToProcessing)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, model.StatusProcessing, store.orders["order-000001"].Status)
	assert.Equal(t, now, store.orders["order-000001"].UpdatedAt)

	require.Len(t, notifier.created, 1)
	assert.Equal(t, "Order Processing", notifier.created[0].Title)
	assert.Contains(t, notifier.created[0].Message, "#000001")
	assert.Equal(t, model.TypeOrderStatus, notifier.created[0].Type)
	assert.Equal(t, "order-000001", notifier.created[0].RelatedID)
}

func TestRunPassIsIdempotentWithoutElapsedTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeOrderStore{orders: map[string]*model.Order{
		"order-000001": order("order-000001", model.StatusPending, now.Add(-3*time.Minute), now.Add(-3*time.Minute)),
	}}
	notifier := newFakeNotifier()
	s := testScheduler(store, notifier, now)

	first := s.RunPass(context.Background())
	second := s.RunPass(context.Background())

	assert.Equal(t, 1, first.Total())
	assert.Equal(t, 0, second.Total(), "second immediate pass must be a no-op")
	assert.Equal(t, 1, store.updates)
	assert.Len(t, notifier.created, 1)
}

func TestOrderWalksAllEdgesAcrossPasses(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeOrderStore{orders: map[string]*model.Order{
		"order-000001": order("order-000001", model.StatusPending, start.Add(-time.Hour), start.Add(-time.Hour)),
	}}
	notifier := newFakeNotifier()
	s := testScheduler(store, notifier, start)

	s.RunPass(context.Background())
	assert.Equal(t, model.StatusProcessing, store.orders["order-000001"].Status, "one step per pass, even for very old orders")

	s.now = func() time.Time { return start.Add(6 * time.Minute) }
	s.RunPass(context.Background())
	assert.Equal(t, model.StatusShipped, store.orders["order-000001"].Status)

	s.now = func() time.Time { return start.Add(20 * time.Minute) }
	s.RunPass(context.Background())
	assert.Equal(t, model.StatusDelivered, store.orders["order-000001"].Status)

	// Terminal: nothing more happens no matter how much time passes.
	s.now = func() time.Time { return start.Add(48 * time.Hour) }
	final := s.RunPass(context.Background())
	assert.Equal(t, 0, final.Total())

	titles := []string{}
	for _, n := range notifier.created {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"Order Processing", "Order Shipped", "Order Delivered"}, titles)
}

func TestRunPassSkipsTerminalOrders(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-24 * time.Hour)
	store := &fakeOrderStore{orders: map[string]*model.Order{
		"cancelled": order("cancelled", model.StatusCancelled, old, old),
		"delivered": order("delivered", model.StatusDelivered, old, old),
	}}
	notifier := newFakeNotifier()
	s := testScheduler(store, notifier, now)

	result := s.RunPass(context.Background())

	assert.Equal(t, 0, result.Total())
	assert.Empty(t, notifier.created)
	assert.Equal(t, model.StatusCancelled, store.orders["cancelled"].Status)
}

func TestRunPassContinuesAfterPerOrderFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-10 * time.Minute)
	store := &fakeOrderStore{
		orders: map[string]*model.Order{
			"broken": order("broken", model.StatusPending, old, old),
			"fine":   order("fine", model.StatusPending, old, old),
		},
		failIDs: map[string]bool{"broken": true},
	}
	notifier := newFakeNotifier()
	s := testScheduler(store, notifier, now)

	result := s.RunPass(context.Background())

	assert.Equal(t, 1, result.PendingToProcessing)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, model.StatusProcessing, store.orders["fine"].Status)
	assert.Equal(t, model.StatusPending, store.orders["broken"].Status)

	// The failed order stays eligible and self-heals on the next pass.
	store.failIDs = nil
	retry := s.RunPass(context.Background())
	assert.Equal(t, 1, retry.PendingToProcessing)
	assert.Equal(t, model.StatusProcessing, store.orders["broken"].Status)
}

func TestRunPassDoesNotDoubleNotify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-10 * time.Minute)
	store := &fakeOrderStore{orders: map[string]*model.Order{
		"order-000001": order("order-000001", model.StatusPending, old, old),
	}}

	// A manual update already emitted the "Order Processing" notification.
	notifier := newFakeNotifier()
	notifier.seen["user-1|ORDER_STATUS|Order Processing|order-000001"] = true

	s := testScheduler(store, notifier, now)
	result := s.RunPass(context.Background())

	assert.Equal(t, 1, result.PendingToProcessing)
	assert.Empty(t, notifier.created, "dedup guard suppresses the duplicate")
}
