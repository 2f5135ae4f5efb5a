package service

import (
	"context"

	"github.com/ikkim/beautycart-backend/internal/checkout"
)

const (
	EventCartUpdated   = "cart.updated"
	EventOrderPlaced   = "order.placed"
	EventSessionEnded  = "session.ended"
	EventWishlistMoved = "wishlist.updated"
)

// SessionNotifier pushes events to clients watching a session.
type SessionNotifier interface {
	Notify(sessionID, eventType string, payload interface{})
}

// OrderPublisher announces placed orders to downstream consumers.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, sessionID string, order checkout.Order) error
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, string, interface{}) {}

type noopPublisher struct{}

func (noopPublisher) PublishOrderPlaced(context.Context, string, checkout.Order) error { return nil }
