package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"
	"food-ordering-api/internal/service"
)

// fakeNotificationRepo mirrors the mongo store, including the partial unique
// index: inserting a second ORDER_STATUS notification with the same
// (user, title, relatedId) key fails with ErrDuplicateKey, while other types
// insert freely.
type fakeNotificationRepo struct {
	notifications map[string]*model.Notification
	insertErr     error

	// missOnce makes the next FindByKey report ErrNotFound even when a
	// matching record exists, simulating a concurrent writer landing between
	// the service's read and its insert.
	missOnce bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[string]*model.Notification{}}
}

func (f *fakeNotificationRepo) Insert(_ context.Context, n *model.Notification) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if n.Type == model.TypeOrderStatus {
		for _, existing := range f.notifications {
			if existing.Type == model.TypeOrderStatus &&
				existing.UserID == n.UserID &&
				existing.Title == n.Title &&
				existing.RelatedID == n.RelatedID {
				return repository.ErrDuplicateKey
			}
		}
	}
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) FindByKey(_ context.Context, userID string, typ model.NotificationType, title, relatedID string) (*model.Notification, error) {
	if f.missOnce {
		f.missOnce = false
		return nil, repository.ErrNotFound
	}
	for _, n := range f.notifications {
		if n.UserID == userID && n.Type == typ && n.Title == title && n.RelatedID == relatedID {
			return n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeNotificationRepo) FindByID(_ context.Context, id string) (*model.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) FindByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range f.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountByUser(ctx context.Context, userID string, unreadOnly bool) (int64, error) {
	list, _ := f.FindByUser(ctx, userID, unreadOnly, 0, 0)
	return int64(len(list)), nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	n, ok := f.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.IsRead = true
	n.UpdatedAt = at
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string, at time.Time) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.UpdatedAt = at
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.notifications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.notifications, id)
	return nil
}

func (f *fakeNotificationRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for id, n := range f.notifications {
		if n.UserID == userID {
			delete(f.notifications, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.notifications)), nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) CountByType(_ context.Context, typ model.NotificationType) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.Type == typ {
			count++
		}
	}
	return count, nil
}

type fakeUserDirectory struct {
	ids []string
}

func (f *fakeUserDirectory) FindAllIDs(_ context.Context) ([]string, error) {
	return f.ids, nil
}

func newNotificationService(repo *fakeNotificationRepo, users *fakeUserDirectory) *service.NotificationService {
	if users == nil {
		users = &fakeUserDirectory{}
	}
	return service.NewNotificationService(repo, users, nil, discardLog())
}

func TestNotifyOnceCreatesThenReturnsExisting(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newNotificationService(repo, nil)
	ctx := context.Background()

	first, err := svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Shipped", "Your order #000001 has been shipped and is on its way!", "order-1")
	require.NoError(t, err)
	require.Len(t, repo.notifications, 1)
	assert.False(t, first.IsRead)

	second, err := svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Shipped", "Your order #000001 has been shipped and is on its way!", "order-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same key returns the existing record")
	assert.Len(t, repo.notifications, 1)
}

func TestNotifyOnceDistinctKeysCreateDistinctRecords(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newNotificationService(repo, nil)
	ctx := context.Background()

	_, err := svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Shipped", "m", "order-1")
	require.NoError(t, err)
	_, err = svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Delivered", "m", "order-1")
	require.NoError(t, err)
	_, err = svc.NotifyOnce(ctx, "user-2", model.TypeOrderStatus, "Order Shipped", "m", "order-1")
	require.NoError(t, err)

	assert.Len(t, repo.notifications, 3)
}

func TestNotifyOnceRecoversFromDuplicateInsert(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newNotificationService(repo, nil)
	ctx := context.Background()

	existing, err := svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Shipped", "m", "order-1")
	require.NoError(t, err)

	// The pre-insert read misses, the insert hits the unique index, and the
	// service falls back to the record the concurrent writer created.
	repo.missOnce = true
	got, err := svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Shipped", "m", "order-1")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	assert.Len(t, repo.notifications, 1)
}

func TestNotifyOncePropagatesInsertErrors(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.insertErr = errors.New("connection reset")
	svc := newNotificationService(repo, nil)

	_, err := svc.NotifyOnce(context.Background(), "user-1", model.TypeOrderStatus, "Order Shipped", "m", "order-1")
	assert.Error(t, err)
}

func TestMarkReadEnforcesOwnership(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newNotificationService(repo, nil)
	ctx := context.Background()

	n, err := svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Shipped", "m", "order-1")
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, "user-2", n.ID)
	assert.ErrorIs(t, err, service.ErrNotYourNotification)

	_, err = svc.MarkRead(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, service.ErrNotificationNotFound)

	updated, err := svc.MarkRead(ctx, "user-1", n.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsRead)
}

func TestMarkAllReadCountsOnlyUnread(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newNotificationService(repo, nil)
	ctx := context.Background()

	a, _ := svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Shipped", "m", "order-1")
	_, _ = svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Delivered", "m", "order-1")
	_, err := svc.MarkRead(ctx, "user-1", a.ID)
	require.NoError(t, err)

	count, err := svc.MarkAllRead(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newNotificationService(repo, nil)
	ctx := context.Background()

	n, err := svc.NotifyOnce(ctx, "user-1", model.TypeOrderStatus, "Order Shipped", "m", "order-1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "user-2", n.ID), service.ErrNotYourNotification)
	assert.NoError(t, svc.Delete(ctx, "user-1", n.ID))
	assert.Empty(t, repo.notifications)
}

func TestBroadcastPromotionReachesEveryUser(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newNotificationService(repo, &fakeUserDirectory{ids: []string{"u1", "u2", "u3"}})
	ctx := context.Background()

	count, err := svc.BroadcastPromotion(ctx, "Weekend Deal", "Everything 20% off!", "promo-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Promotions are not deduplicated; resending the campaign works.
	count, err = svc.BroadcastPromotion(ctx, "Weekend Deal", "Everything 20% off!", "promo-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, repo.notifications, 6)
}

func TestStats(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newNotificationService(repo, &fakeUserDirectory{ids: []string{"u1", "u2"}})
	ctx := context.Background()

	n, err := svc.NotifyOnce(ctx, "u1", model.TypeOrderStatus, "Order Shipped", "m", "order-1")
	require.NoError(t, err)
	_, err = svc.BroadcastSystem(ctx, "Maintenance", "Down tonight at 02:00 UTC.")
	require.NoError(t, err)
	_, err = svc.MarkRead(ctx, "u1", n.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Unread)
	assert.Equal(t, int64(1), stats.OrderStatus)
	assert.Equal(t, int64(0), stats.Promotion)
	assert.Equal(t, int64(2), stats.System)
}
