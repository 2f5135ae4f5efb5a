package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	apperrors "github.com/ikkim/beautycart-backend/internal/errors"
	"github.com/ikkim/beautycart-backend/internal/middleware"
	"github.com/ikkim/beautycart-backend/pkg/logger"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type UpdateQuantityRequest struct {
	// Zero or less removes the line.
	Quantity *int `json:"quantity" binding:"required"`
}

type SelectionRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// respondCartError maps service errors to responses.
func respondCartError(c *gin.Context, log *logger.Logger, err error, sessionID, action string) {
	switch {
	case errors.Is(err, service.ErrInvalidItem):
		apperrors.BadRequest(c, apperrors.CartInvalidItem, "Item id is required")
	default:
		log.Error("Failed to "+action, err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
	}
}

// GetCart returns the session's cart with live totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		respondCartError(c, log, err, sessionID, "fetch cart")
		return
	}

	log.Info("Cart fetched successfully", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(view.Items),
		"total":      view.Totals.Total.StringFixed(2),
	})

	c.JSON(http.StatusOK, newCartResponse(view))
}

// AddItem adds one unit of a product
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.AddItem(c.Request.Context(), sessionID, req.toLineItem())
	if err != nil {
		respondCartError(c, log, err, sessionID, "add item to cart")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(view))
}

// UpdateQuantity sets an exact quantity
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}
	itemID := c.Param("id")

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update quantity request", map[string]interface{}{
			"session_id": sessionID,
			"item_id":    itemID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), sessionID, itemID, *req.Quantity)
	if err != nil {
		respondCartError(c, log, err, sessionID, "update cart item")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(view))
}

// RemoveItem removes a line; removing an absent line is not an error
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.RemoveItem(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		respondCartError(c, log, err, sessionID, "remove cart item")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(view))
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.ClearCart(c.Request.Context(), sessionID)
	if err != nil {
		respondCartError(c, log, err, sessionID, "clear cart")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(view))
}

// SaveForLater moves a line to the saved list
// POST /api/v1/cart/items/:id/save-for-later
func (ctrl *CartController) SaveForLater(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.SaveForLater(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		respondCartError(c, log, err, sessionID, "save cart item for later")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(view))
}

// MoveToWishlist moves a line into favorites
// POST /api/v1/cart/items/:id/move-to-wishlist
func (ctrl *CartController) MoveToWishlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.MoveToWishlist(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		respondCartError(c, log, err, sessionID, "move cart item to wishlist")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(view))
}

// SetSelection replaces the selected item ids
// PUT /api/v1/cart/selection
func (ctrl *CartController) SetSelection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.SetSelection(c.Request.Context(), sessionID, req.ItemIDs)
	if err != nil {
		respondCartError(c, log, err, sessionID, "update selection")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(view))
}

// RemoveSelected drops every selected line
// DELETE /api/v1/cart/selection
func (ctrl *CartController) RemoveSelected(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	view, removed, err := ctrl.cartService.RemoveSelected(c.Request.Context(), sessionID)
	if err != nil {
		respondCartError(c, log, err, sessionID, "remove selected items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"removed": removed,
		"cart":    newCartResponse(view),
	})
}

// ViewProduct records a product view
// POST /api/v1/recently-viewed
func (ctrl *CartController) ViewProduct(c *gin.Context) {
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

	recent, err := ctrl.cartService.ViewProduct(c.Request.Context(), sessionID, req.toLineItem())
	if err != nil {
		respondCartError(c, log, err, sessionID, "record product view")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recently_viewed": newLineItemResponses(recent),
	})
}
