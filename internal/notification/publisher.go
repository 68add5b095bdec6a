package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventOrderCreated = "OrderCreated"

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	UserName  string             `json:"user_name"`
	UserEmail string             `json:"user_email"`
	Total     decimal.Decimal    `json:"total"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID   *string         `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

func NewOrderCreatedEvent(n *OrderPlaced) OrderCreatedEvent {
	o := n.Order
	items := make([]OrderItemPayload, 0, len(o.Items))
	for _, item := range o.Items {
		p := OrderItemPayload{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
		if item.Product != nil {
			p.ProductName = item.Product.Name
		}
		items = append(items, p)
	}
	return OrderCreatedEvent{
		EventID:   uuid.New().String(),
		EventType: EventOrderCreated,
		Payload: OrderPayload{
			ID:        o.ID,
			UserID:    o.UserID,
			UserName:  n.UserName,
			UserEmail: n.UserEmail,
			Total:     o.Total,
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
			Items:     items,
		},
		Timestamp: time.Now(),
	}
}

// OrderPlaced rebuilds the notification carried by the event.
func (e OrderCreatedEvent) OrderPlaced() *OrderPlaced {
	p := e.Payload
	order := &model.Order{
		BaseModel: model.BaseModel{ID: p.ID, CreatedAt: p.CreatedAt},
		UserID:    p.UserID,
		Total:     p.Total,
		Status:    p.Status,
	}
	for _, item := range p.Items {
		order.Items = append(order.Items, model.OrderItem{
			OrderID:   p.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Product:   &model.Product{Name: item.ProductName},
		})
	}
	return &OrderPlaced{Order: order, UserName: p.UserName, UserEmail: p.UserEmail}
}

// Producer is the publishing side of a message broker.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// EventPublisher emits OrderCreated events keyed by order id.
type EventPublisher struct {
	producer Producer
}

func NewEventPublisher(producer Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func (p *EventPublisher) NotifyOrderPlaced(ctx context.Context, n *OrderPlaced) error {
	data, err := json.Marshal(NewOrderCreatedEvent(n))
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, n.Order.ID, data); err != nil {
		return fmt.Errorf("publish order created: %w", err)
	}
	return nil
}
