// Package events defines the domain events published to Kafka.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/techstore/pkg/logging"
)

const (
	TopicOrders   = "order_events"
	TopicProducts = "product_events"
	TopicUsers    = "user_events"
)

const (
	OrderPlaced        = "order_placed"
	OrderStatusChanged = "order_status_changed"
	OrderCancelled     = "order_cancelled"
	OrderClaimed       = "order_claimed"
	ProductCreated     = "product_created"
	ProductUpdated     = "product_updated"
	ProductDeactivated = "product_deactivated"
	UserRegistered     = "user_registered"
	UserLoggedIn       = "user_logged_in"
	UserSocialLinked   = "user_social_linked"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }

type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      string          `json:"user_id,omitempty"`
	Guest       bool            `json:"guest"`
	Status      string          `json:"status"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Items       []OrderLine     `json:"items,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"product_id"`
	SKU        string    `json:"sku"`
	Stock      int       `json:"stock"`
	IsActive   bool      `json:"is_active"`
	OccurredAt time.Time `json:"occurred_at"`
}

type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Provider   string    `json:"provider,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Emit publishes and logs failures; events never fail the caller.
func Emit(ctx context.Context, p Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "key", key, "error", err)
	}
}
