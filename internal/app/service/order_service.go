package service

import (
	"context"
	"errors"

	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
)

type OrderService interface {
	PlaceOrder(ctx context.Context, sessionID string) (*checkout.Order, error)
	ListOrders(ctx context.Context, sessionID string) ([]checkout.Order, error)
	GetOrder(ctx context.Context, sessionID, orderNumber string) (*checkout.Order, error)
}

type orderService struct {
	store     *SessionStore
	orderRepo repository.OrderRepository
	notifier  SessionNotifier
	publisher OrderPublisher
}

func NewOrderService(
	store *SessionStore,
	orderRepo repository.OrderRepository,
	notifier SessionNotifier,
	publisher OrderPublisher,
) OrderService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &orderService{
		store:     store,
		orderRepo: orderRepo,
		notifier:  notifier,
		publisher: publisher,
	}
}

// PlaceOrder checks out the session's cart. The order row and the emptied
// cart are stored together; on any failure the cart is kept as it was.
func (s *orderService) PlaceOrder(ctx context.Context, sessionID string) (*checkout.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"session_id": sessionID,
	})

	var placed checkout.Order
	err := s.store.placeOrder(ctx, sessionID, func(session *checkout.Session) (*model.Order, error) {
		if len(session.Items()) == 0 {
			return nil, ErrEmptyCart
		}

		order, err := session.PlaceOrder()
		if err != nil {
			return nil, err
		}
		placed = order
		return model.NewOrderRecord(sessionID, order), nil
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			logger.Warn("Cannot place order: cart is empty", map[string]interface{}{
				"session_id": sessionID,
			})
		} else {
			logger.Error("Failed to place order", err, map[string]interface{}{
				"session_id": sessionID,
			})
		}
		return nil, err
	}

	logger.Info("Order placed", map[string]interface{}{
		"session_id": sessionID,
		"order_id":   placed.ID,
		"item_count": placed.ItemCount(),
		"total":      placed.Total.StringFixed(2),
	})

	s.notifier.Notify(sessionID, EventOrderPlaced, placed)
	if err := s.publisher.PublishOrderPlaced(ctx, sessionID, placed); err != nil {
		logger.Error("Failed to publish order placed event", err, map[string]interface{}{
			"session_id": sessionID,
			"order_id":   placed.ID,
		})
	}
	return &placed, nil
}

func (s *orderService) ListOrders(ctx context.Context, sessionID string) ([]checkout.Order, error) {
	rows, err := s.orderRepo.FindBySessionID(sessionID)
	if err != nil {
		logger.Error("Failed to fetch orders", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	orders := make([]checkout.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, rows[i].ToCheckout())
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, sessionID, orderNumber string) (*checkout.Order, error) {
	row, err := s.orderRepo.FindByNumber(sessionID, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	order := row.ToCheckout()
	return &order, nil
}
