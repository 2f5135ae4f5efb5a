package repository

import (
	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	// Add inserts the item unless the session already has that product.
	// It reports whether a row was created.
	Add(item *model.FavoriteItem) (bool, error)
	FindBySessionID(sessionID string) ([]model.FavoriteItem, error)
	FindBySessionAndProduct(sessionID, productID string) (*model.FavoriteItem, error)
	Delete(sessionID, productID string) error
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(item *model.FavoriteItem) (bool, error) {
	logger.Debug("Adding favorite item in database", map[string]interface{}{
		"session_id": item.SessionID,
		"product_id": item.ProductID,
	})

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(item)
	if result.Error != nil {
		logger.Error("Failed to add favorite item in database", result.Error, map[string]interface{}{
			"session_id": item.SessionID,
			"product_id": item.ProductID,
		})
		return false, result.Error
	}

	logger.Debug("Favorite item stored", map[string]interface{}{
		"session_id": item.SessionID,
		"product_id": item.ProductID,
		"created":    result.RowsAffected > 0,
	})
	return result.RowsAffected > 0, nil
}

func (r *favoriteRepository) FindBySessionID(sessionID string) ([]model.FavoriteItem, error) {
	var items []model.FavoriteItem
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find favorite items by session ID in database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return items, nil
}

func (r *favoriteRepository) FindBySessionAndProduct(sessionID, productID string) (*model.FavoriteItem, error) {
	var item model.FavoriteItem
	err := r.db.Where("session_id = ? AND product_id = ?", sessionID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *favoriteRepository) Delete(sessionID, productID string) error {
	logger.Debug("Deleting favorite item from database", map[string]interface{}{
		"session_id": sessionID,
		"product_id": productID,
	})

	if err := r.db.Where("session_id = ? AND product_id = ?", sessionID, productID).Delete(&model.FavoriteItem{}).Error; err != nil {
		logger.Error("Failed to delete favorite item from database", err, map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
		})
		return err
	}
	return nil
}
