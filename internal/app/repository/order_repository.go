package repository

import (
	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	// FindBySessionID returns the session's orders oldest first.
	FindBySessionID(sessionID string) ([]model.Order, error)
	FindByNumber(sessionID, orderNumber string) (*model.Order, error)
	CountBySessionID(sessionID string) (int64, error)
	// Delete removes an order and its items.
	Delete(sessionID, orderNumber string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"session_id":   order.SessionID,
		"order_number": order.OrderNumber,
		"item_count":   len(order.OrderItems),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"session_id":   order.SessionID,
			"order_number": order.OrderNumber,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return nil
}

func (r *orderRepository) FindBySessionID(sessionID string) ([]model.Order, error) {
	logger.Debug("Finding orders by session ID in database", map[string]interface{}{
		"session_id": sessionID,
	})

	var orders []model.Order
	err := r.db.Where("session_id = ?", sessionID).
		Preload("OrderItems", preloadItems).
		Order("placed_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by session ID in database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	logger.Debug("Orders found by session ID in database", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindByNumber(sessionID, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.Where("session_id = ? AND order_number = ?", sessionID, orderNumber).
		Preload("OrderItems", preloadItems).
		First(&order).Error
	if err != nil {
		logger.Error("Failed to find order by number in database", err, map[string]interface{}{
			"session_id":   sessionID,
			"order_number": orderNumber,
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) CountBySessionID(sessionID string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Order{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
		logger.Error("Failed to count orders in database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) Delete(sessionID, orderNumber string) error {
	logger.Debug("Deleting order from database", map[string]interface{}{
		"session_id":   sessionID,
		"order_number": orderNumber,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Where("session_id = ? AND order_number = ?", sessionID, orderNumber).First(&order).Error; err != nil {
			logger.Error("Failed to find order to delete", err, map[string]interface{}{
				"session_id":   sessionID,
				"order_number": orderNumber,
			})
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
			logger.Error("Failed to delete order items", err, map[string]interface{}{
				"order_id": order.ID,
			})
			return err
		}
		if err := tx.Delete(&order).Error; err != nil {
			logger.Error("Failed to delete order", err, map[string]interface{}{
				"order_id": order.ID,
			})
			return err
		}
		return nil
	})
}
