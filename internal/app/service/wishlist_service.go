package service

import (
	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/pkg/logger"
)

type FavoriteService interface {
	ListFavorites(sessionID string) ([]model.FavoriteItem, error)
	// AddFavorite is a no-op when the product is already a favorite.
	AddFavorite(sessionID string, item checkout.LineItem) (bool, error)
	RemoveFavorite(sessionID, productID string) error
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository) FavoriteService {
	return &favoriteService{favoriteRepo: favoriteRepo}
}

func (s *favoriteService) ListFavorites(sessionID string) ([]model.FavoriteItem, error) {
	items, err := s.favoriteRepo.FindBySessionID(sessionID)
	if err != nil {
		logger.Error("Failed to fetch favorites", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return items, nil
}

func (s *favoriteService) AddFavorite(sessionID string, item checkout.LineItem) (bool, error) {
	if item.ID == "" {
		return false, ErrInvalidItem
	}

	created, err := s.favoriteRepo.Add(model.NewFavoriteItem(sessionID, item))
	if err != nil {
		return false, err
	}

	logger.Info("Favorite added", map[string]interface{}{
		"session_id": sessionID,
		"item_id":    item.ID,
		"created":    created,
	})
	return created, nil
}

func (s *favoriteService) RemoveFavorite(sessionID, productID string) error {
	return s.favoriteRepo.Delete(sessionID, productID)
}
