package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"food-ordering-api/internal/metrics"
	"food-ordering-api/internal/model"
)

// OrderStore is the slice of the order repository the scheduler needs.
type OrderStore interface {
	FindInStatusOlderThan(ctx context.Context, status model.OrderStatus, before time.Time, byCreation bool) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error
}

// Notifier emits at most one notification per unique key.
type Notifier interface {
	NotifyOnce(ctx context.Context, userID string, typ model.NotificationType, title, message, relatedID string) (*model.Notification, error)
}

// EventPublisher announces status changes to downstream consumers. May be nil.
type EventPublisher interface {
	StatusChanged(ctx context.Context, o *model.Order, from model.OrderStatus)
}

// PassResult reports what one scan pass did.
type PassResult struct {
	PendingToProcessing int
	ProcessingToShipped int
	ShippedToDelivered  int
	Failed              int
}

func (r PassResult) Total() int {
	return r.PendingToProcessing + r.ProcessingToShipped + r.ShippedToDelivered
}

type edge struct {
	from       model.OrderStatus
	byCreation bool
	threshold  func(Thresholds) time.Duration
	counter    func(*PassResult) *int
}

// Edges in promotion order. PENDING ages from creation, the others from the
// previous status change.
var edges = []edge{
	{model.StatusPending, true, func(t Thresholds) time.Duration { return t.PendingToProcessing },
		func(r *PassResult) *int { return &r.PendingToProcessing }},
	{model.StatusProcessing, false, func(t Thresholds) time.Duration { return t.ProcessingToShipped },
		func(r *PassResult) *int { return &r.ProcessingToShipped }},
	{model.StatusShipped, false, func(t Thresholds) time.Duration { return t.ShippedToDelivered },
		func(r *PassResult) *int { return &r.ShippedToDelivered }},
}

// Scheduler runs the periodic scan pass over eligible orders.
type Scheduler struct {
	orders     OrderStore
	notifier   Notifier
	events     EventPublisher
	metrics    *metrics.Metrics
	thresholds Thresholds
	interval   time.Duration
	log        *slog.Logger

	now func() time.Time
}

func NewScheduler(orders OrderStore, notifier Notifier, events EventPublisher, m *metrics.Metrics, th Thresholds, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		orders:     orders,
		notifier:   notifier,
		events:     events,
		metrics:    m,
		thresholds: th,
		interval:   interval,
		log:        log,
		now:        time.Now,
	}
}

// Start runs the loop in the background until ctx is cancelled. The first
// pass runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.log.Info("order scheduler started", "interval", s.interval)
		s.RunPass(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info("order scheduler stopped")
				return
			case <-ticker.C:
				s.RunPass(ctx)
			}
		}
	}()
}

// RunPass scans each transition edge once and promotes every eligible order
// one step. A failure on one order is logged and the pass continues; the
// still-eligible order is picked up again by the next pass.
func (s *Scheduler) RunPass(ctx context.Context) PassResult {
	var result PassResult
	now := s.now().UTC()

	for _, e := range edges {
		before := now.Add(-e.threshold(s.thresholds))
		orders, err := s.orders.FindInStatusOlderThan(ctx, e.from, before, e.byCreation)
		if err != nil {
			s.log.Error("scan pass: query failed", "status", e.from, "error", err)
			result.Failed++
			continue
		}

		for _, o := range orders {
			next, ok := Next(o.Status, Reference(o), now, s.thresholds)
			if !ok {
				continue
			}
			if err := s.promote(ctx, o, next, now); err != nil {
				s.log.Error("scan pass: promotion failed", "order", o.ID, "from", o.Status, "to", next, "error", err)
				result.Failed++
				continue
			}
			*e.counter(&result)++
		}
	}

	s.metrics.ScanPass(result.Total(), result.Failed)
	if result.Total() > 0 || result.Failed > 0 {
		s.log.Info("scan pass complete",
			"pending_to_processing", result.PendingToProcessing,
			"processing_to_shipped", result.ProcessingToShipped,
			"shipped_to_delivered", result.ShippedToDelivered,
			"failed", result.Failed)
	}
	return result
}

func (s *Scheduler) promote(ctx context.Context, o *model.Order, next model.OrderStatus, now time.Time) error {
	from := o.Status
	if err := s.orders.UpdateStatus(ctx, o.ID, next, now); err != nil {
		return err
	}
	o.Status = next
	o.UpdatedAt = now
	s.metrics.StatusTransition(from, next)

	title, message := StatusNotification(next, o.Ref())
	if _, err := s.notifier.NotifyOnce(ctx, o.UserID, model.TypeOrderStatus, title, message, o.ID); err != nil {
		// Status is already updated at this point; the pass keeps going.
		s.log.Error("scan pass: notification failed", "order", o.ID, "error", err)
	}

	if s.events != nil {
		s.events.StatusChanged(ctx, o, from)
	}
	return nil
}
