package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	apperrors "github.com/ikkim/beautycart-backend/internal/errors"
	"github.com/ikkim/beautycart-backend/internal/middleware"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

// ListFavorites returns the session's favorites
// GET /api/v1/favorites
func (ctrl *FavoriteController) ListFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	items, err := ctrl.favoriteService.ListFavorites(sessionID)
	if err != nil {
		log.Error("Failed to fetch favorites", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to fetch favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": newFavoriteResponses(items),
		"count":     len(items),
	})
}

// AddFavorite saves a product; adding it twice is not an error
// POST /api/v1/favorites
func (ctrl *FavoriteController) AddFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	created, err := ctrl.favoriteService.AddFavorite(sessionID, req.toLineItem())
	if err != nil {
		if errors.Is(err, service.ErrInvalidItem) {
			apperrors.BadRequest(c, apperrors.CartInvalidItem, "Item id is required and price cannot be negative")
			return
		}
		log.Error("Failed to add favorite", err, map[string]interface{}{
			"session_id": sessionID,
			"item_id":    req.ID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add favorite")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"added": created,
	})
}

// RemoveFavorite removes a product from favorites
// DELETE /api/v1/favorites/:product_id
func (ctrl *FavoriteController) RemoveFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}
	productID := c.Param("product_id")

	if err := ctrl.favoriteService.RemoveFavorite(sessionID, productID); err != nil {
		log.Error("Failed to remove favorite", err, map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Removed from favorites",
	})
}
