package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/lifecycle"
	"food-ordering-api/internal/metrics"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("item quantity must be at least 1")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrTerminalState     = errors.New("order is in a terminal state")
	ErrNotYourOrder      = errors.New("order belongs to another user")
	ErrOrderNotPending   = errors.New("only pending orders can be deleted")
)

// OrderRepository is the store interface the service consumes.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByUser(ctx context.Context, userID string, status model.OrderStatus, skip, limit int) ([]*model.Order, error)
	CountByUser(ctx context.Context, userID string, status model.OrderStatus) (int64, error)
	FindAll(ctx context.Context, status model.OrderStatus, skip, limit int) ([]*model.Order, error)
	Count(ctx context.Context, status model.OrderStatus) (int64, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// ProductLookup resolves product ids to live catalog entries at checkout.
type ProductLookup interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

// Notifier is implemented by NotificationService.
type Notifier interface {
	NotifyOnce(ctx context.Context, userID string, typ model.NotificationType, title, message, relatedID string) (*model.Notification, error)
}

// OrderEvents announces order changes to downstream consumers. May be nil.
type OrderEvents interface {
	OrderPlaced(ctx context.Context, o *model.Order)
	StatusChanged(ctx context.Context, o *model.Order, from model.OrderStatus)
}

type OrderService struct {
	orders   OrderRepository
	products ProductLookup
	notifier Notifier
	events   OrderEvents
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewOrderService(orders OrderRepository, products ProductLookup, notifier Notifier, events OrderEvents, m *metrics.Metrics, log *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		notifier: notifier,
		events:   events,
		metrics:  m,
		log:      log,
	}
}

// Create resolves every requested product to a price/name snapshot, computes
// the total, persists the order with its embedded items in one write, and
// emits the "placed" notification. Any unresolvable product fails the whole
// checkout.
func (s *OrderService) Create(ctx context.Context, userID string, req dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	payment := req.PaymentMethod
	if payment == "" {
		payment = "CASH"
	}
	if !model.ValidPaymentMethod(payment) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayment, req.PaymentMethod)
	}

	var total float64
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
			}
			return nil, err
		}
		total += product.Price * float64(item.Quantity)
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          model.StatusPending,
		TotalAmount:     total,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   payment,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.metrics.OrderCreated()

	title, message := lifecycle.PlacedNotification(order.Ref())
	if _, err := s.notifier.NotifyOnce(ctx, userID, model.TypeOrderStatus, title, message, order.ID); err != nil {
		// Order is persisted; a missing notification is not worth failing
		// the checkout.
		s.log.Error("order placed notification failed", "order", order.ID, "error", err)
	}

	if s.events != nil {
		s.events.OrderPlaced(ctx, order)
	}
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string, status model.OrderStatus, skip, limit int) ([]*model.Order, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	orders, err := s.orders.FindByUser(ctx, userID, status, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.CountByUser(ctx, userID, status)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderService) ListAll(ctx context.Context, status model.OrderStatus, skip, limit int) ([]*model.Order, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	orders, err := s.orders.FindAll(ctx, status, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Get returns the order if the actor owns it or is an admin.
func (s *OrderService) Get(ctx context.Context, id, actorID string, isAdmin bool) (*model.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actorID && !isAdmin {
		return nil, ErrNotYourOrder
	}
	return order, nil
}

// UpdateStatus is the manual (admin) transition path. The requested status
// must be a valid enum value and a legal transition: one step forward, or
// CANCELLED from any non-terminal state. Setting the current status again is
// a no-op. The notification goes through the same dedup guard as the
// scheduler, so the two paths racing on one order never double-notify.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, newStatus model.OrderStatus) (*model.Order, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == newStatus {
		return order, nil
	}
	if order.Status.Terminal() {
		return nil, ErrTerminalState
	}
	if !transitionAllowed(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, newStatus)
	}

	from := order.Status
	now := time.Now().UTC()
	if err := s.orders.UpdateStatus(ctx, id, newStatus, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	order.Status = newStatus
	order.UpdatedAt = now
	s.metrics.StatusTransition(from, newStatus)

	title, message := lifecycle.StatusNotification(newStatus, order.Ref())
	if _, err := s.notifier.NotifyOnce(ctx, order.UserID, model.TypeOrderStatus, title, message, order.ID); err != nil {
		s.log.Error("status notification failed", "order", order.ID, "error", err)
	}

	if s.events != nil {
		s.events.StatusChanged(ctx, order, from)
	}
	return order, nil
}

// Delete removes an order. Owners may only delete while the order is still
// PENDING; admins may delete in any state.
func (s *OrderService) Delete(ctx context.Context, id, actorID string, isAdmin bool) error {
	order, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if order.UserID != actorID && !isAdmin {
		return ErrNotYourOrder
	}
	if !isAdmin && order.Status != model.StatusPending {
		return ErrOrderNotPending
	}
	return s.orders.Delete(ctx, id)
}

// Allowed manual transitions, keyed by current status.
var manualTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.StatusPending:    {model.StatusProcessing, model.StatusCancelled},
	model.StatusProcessing: {model.StatusShipped, model.StatusCancelled},
	model.StatusShipped:    {model.StatusDelivered, model.StatusCancelled},
}

func transitionAllowed(from, to model.OrderStatus) bool {
	for _, allowed := range manualTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *OrderService) find(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
