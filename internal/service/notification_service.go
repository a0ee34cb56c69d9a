package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"food-ordering-api/internal/metrics"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotYourNotification  = errors.New("notification belongs to another user")
)

// NotificationRepository is the store interface the service consumes.
type NotificationRepository interface {
	Insert(ctx context.Context, n *model.Notification) error
	FindByKey(ctx context.Context, userID string, typ model.NotificationType, title, relatedID string) (*model.Notification, error)
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	FindByUser(ctx context.Context, userID string, unreadOnly bool, skip, limit int) ([]*model.Notification, error)
	CountByUser(ctx context.Context, userID string, unreadOnly bool) (int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
	CountByType(ctx context.Context, typ model.NotificationType) (int64, error)
}

// UserDirectory lists recipients for broadcast notifications.
type UserDirectory interface {
	FindAllIDs(ctx context.Context) ([]string, error)
}

type NotificationService struct {
	repo    NotificationRepository
	users   UserDirectory
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewNotificationService(repo NotificationRepository, users UserDirectory, m *metrics.Metrics, log *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, users: users, metrics: m, log: log}
}

// NotifyOnce creates a notification unless one with the same
// (user, type, title, relatedId) key already exists, in which case the
// existing record is returned. The first check is a cheap read; the unique
// index on the store settles concurrent callers by rejecting the second
// insert.
func (s *NotificationService) NotifyOnce(ctx context.Context, userID string, typ model.NotificationType, title, message, relatedID string) (*model.Notification, error) {
	existing, err := s.repo.FindByKey(ctx, userID, typ, title, relatedID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	n := s.build(userID, typ, title, message, relatedID)
	if err := s.repo.Insert(ctx, n); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return s.repo.FindByKey(ctx, userID, typ, title, relatedID)
		}
		return nil, err
	}
	s.metrics.NotificationCreated(typ)
	return n, nil
}

// ListForUser returns a page of the user's notifications plus the total and
// unread counts.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, skip, limit int) ([]*model.Notification, int64, int64, error) {
	notifications, err := s.repo.FindByUser(ctx, userID, unreadOnly, skip, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	total, err := s.repo.CountByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountByUser(ctx, userID, true)
	if err != nil {
		return nil, 0, 0, err
	}
	return notifications, total, unread, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) (*model.Notification, error) {
	n, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.repo.MarkRead(ctx, id, now); err != nil {
		return nil, err
	}
	n.IsRead = true
	n.UpdatedAt = now
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *NotificationService) ClearAll(ctx context.Context, userID string) (int64, error) {
	return s.repo.DeleteByUser(ctx, userID)
}

// BroadcastPromotion creates a PROMOTION notification for every user and
// returns how many were created. Broadcasts are not deduplicated; the same
// campaign may legitimately be sent twice.
func (s *NotificationService) BroadcastPromotion(ctx context.Context, title, message, relatedID string) (int, error) {
	return s.broadcast(ctx, model.TypePromotion, title, message, relatedID)
}

// BroadcastSystem creates a SYSTEM notification for every user.
func (s *NotificationService) BroadcastSystem(ctx context.Context, title, message string) (int, error) {
	return s.broadcast(ctx, model.TypeSystem, title, message, "")
}

func (s *NotificationService) broadcast(ctx context.Context, typ model.NotificationType, title, message, relatedID string) (int, error) {
	ids, err := s.users.FindAllIDs(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, userID := range ids {
		if err := s.repo.Insert(ctx, s.build(userID, typ, title, message, relatedID)); err != nil {
			s.log.Error("broadcast: insert failed", "user", userID, "type", typ, "error", err)
			continue
		}
		s.metrics.NotificationCreated(typ)
		count++
	}
	return count, nil
}

type NotificationStats struct {
	Total       int64 `json:"total"`
	Unread      int64 `json:"unread"`
	OrderStatus int64 `json:"orderStatus"`
	Promotion   int64 `json:"promotion"`
	System      int64 `json:"system"`
}

func (s *NotificationService) Stats(ctx context.Context) (*NotificationStats, error) {
	var stats NotificationStats
	var err error

	if stats.Total, err = s.repo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Unread, err = s.repo.CountUnread(ctx); err != nil {
		return nil, err
	}
	if stats.OrderStatus, err = s.repo.CountByType(ctx, model.TypeOrderStatus); err != nil {
		return nil, err
	}
	if stats.Promotion, err = s.repo.CountByType(ctx, model.TypePromotion); err != nil {
		return nil, err
	}
	if stats.System, err = s.repo.CountByType(ctx, model.TypeSystem); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *NotificationService) build(userID string, typ model.NotificationType, title, message, relatedID string) *model.Notification {
	now := time.Now().UTC()
	return &model.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
		IsRead:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *NotificationService) owned(ctx context.Context, userID, id string) (*model.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrNotYourNotification
	}
	return n, nil
}
