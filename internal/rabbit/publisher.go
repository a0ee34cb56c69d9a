// Package rabbit publishes order lifecycle events to a fanout exchange so
// downstream services (kitchen display, courier dispatch) can react without
// polling the API.
package rabbit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"food-ordering-api/internal/model"
)

const exchange = "order_events"

type Publisher struct {
	ch  *amqp091.Channel
	log *slog.Logger
}

// Connect dials the broker, opens a channel and declares the fanout
// exchange. The returned connection is owned by the caller and must be
// closed at shutdown.
func Connect(url string, log *slog.Logger) (*amqp091.Connection, *Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	err = ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	log.Info("rabbit: publishing order events", "exchange", exchange)
	return conn, &Publisher{ch: ch, log: log}, nil
}

type orderEvent struct {
	Event       string    `json:"event"`
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status"`
	PrevStatus  string    `json:"prevStatus,omitempty"`
	TotalAmount float64   `json:"totalAmount"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// OrderPlaced announces a freshly created order. Safe on a nil publisher.
func (p *Publisher) OrderPlaced(ctx context.Context, o *model.Order) {
	if p == nil {
		return
	}
	p.publish(ctx, orderEvent{
		Event:       "order.placed",
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	})
}

// StatusChanged announces an order status transition. Safe on a nil
// publisher.
func (p *Publisher) StatusChanged(ctx context.Context, o *model.Order, from model.OrderStatus) {
	if p == nil {
		return
	}
	p.publish(ctx, orderEvent{
		Event:       "order.status_changed",
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		PrevStatus:  string(from),
		TotalAmount: o.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	})
}

// publish is fire-and-forget: a broker hiccup must not fail the request that
// triggered the event.
func (p *Publisher) publish(ctx context.Context, ev orderEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("rabbit: marshal event", "event", ev.Event, "error", err)
		return
	}

	err = p.ch.PublishWithContext(ctx, exchange, "", false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		p.log.Error("rabbit: publish failed", "event", ev.Event, "order", ev.OrderID, "error", err)
	}
}
