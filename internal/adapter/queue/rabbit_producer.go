package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "order.events"

// OrderEventMsg is the wire shape for every order lifecycle event.
type OrderEventMsg struct {
	OrderID    string `json:"orderId"`
	UserID     string `json:"userId"`
	Status     string `json:"status"`
	PrevStatus string `json:"prevStatus,omitempty"`
	TotalCents int64  `json:"totalCents"`
	OccurredAt string `json:"occurredAt"`
}

// RabbitOrderEvents publishes order lifecycle events to a durable topic
// exchange. Declaration happens once at startup.
type RabbitOrderEvents struct {
	ch *amqp.Channel
}

func NewRabbitOrderEvents(ch *amqp.Channel) (*RabbitOrderEvents, error) {
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &RabbitOrderEvents{ch: ch}, nil
}

func (p *RabbitOrderEvents) OrderCreated(ctx context.Context, o *entity.Order) error {
	return p.publish(ctx, "order.created", msgFor(o, ""))
}

func (p *RabbitOrderEvents) OrderCancelled(ctx context.Context, o *entity.Order) error {
	return p.publish(ctx, "order.cancelled", msgFor(o, ""))
}

func (p *RabbitOrderEvents) OrderStatusChanged(ctx context.Context, o *entity.Order, from entity.OrderStatus) error {
	return p.publish(ctx, "order.status_changed", msgFor(o, from))
}

func msgFor(o *entity.Order, from entity.OrderStatus) OrderEventMsg {
	return OrderEventMsg{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		PrevStatus: string(from),
		TotalCents: o.TotalCents,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (p *RabbitOrderEvents) publish(ctx context.Context, routingKey string, msg OrderEventMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// NopOrderEvents is wired when no broker is configured.
type NopOrderEvents struct{}

func (NopOrderEvents) OrderCreated(context.Context, *entity.Order) error   { return nil }
func (NopOrderEvents) OrderCancelled(context.Context, *entity.Order) error { return nil }
func (NopOrderEvents) OrderStatusChanged(context.Context, *entity.Order, entity.OrderStatus) error {
	return nil
}

var (
	_ usecase.OrderEvents = (*RabbitOrderEvents)(nil)
	_ usecase.OrderEvents = NopOrderEvents{}
)
