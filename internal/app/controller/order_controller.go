package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	apperrors "github.com/ikkim/beautycart-backend/internal/errors"
	"github.com/ikkim/beautycart-backend/internal/middleware"
)

type OrderController struct {
	orderService  service.OrderService
	exportService service.ExportService
}

func NewOrderController(orderService service.OrderService, exportService service.ExportService) *OrderController {
	return &OrderController{
		orderService:  orderService,
		exportService: exportService,
	}
}

// normalizeOrderID accepts the id with or without its leading '#', which
// clients would otherwise have to escape in the path.
func normalizeOrderID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return raw
	}
	return "#" + raw
}

// PlaceOrder checks out the cart
// POST /api/v1/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	order, err := ctrl.orderService.PlaceOrder(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, checkout.ErrDuplicateOrderID):
			apperrors.Conflict(c, apperrors.OrderIDUnavailable, "Could not allocate an order number. Please try again")
		default:
			log.Error("Failed to place order", err, map[string]interface{}{
				"session_id": sessionID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create order")
		}
		return
	}

	log.Info("Order placed successfully", map[string]interface{}{
		"session_id": sessionID,
		"order_id":   order.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   newOrderResponse(*order),
	})
}

// ListOrders returns the order history, oldest first
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListOrders(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": out,
		"count":  len(out),
	})
}

// GetOrder returns one order
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	orderID := normalizeOrderID(c.Param("id"))
	if orderID == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order id")
		return
	}

	order, err := ctrl.orderService.GetOrder(c.Request.Context(), sessionID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"session_id": sessionID,
			"order_id":   orderID,
		})
		apperrors.InternalError(c, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": newOrderResponse(*order),
	})
}

// ExportOrders downloads the order history as a spreadsheet
// GET /api/v1/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	data, err := ctrl.exportService.ExportOrders(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to export orders", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ExportFailed, "Could not export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, service.XLSXContentType, data)
}

// ArchiveOrders uploads the export and returns a temporary download link
// POST /api/v1/orders/export/archive
func (ctrl *OrderController) ArchiveOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	archive, err := ctrl.exportService.ArchiveOrders(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			apperrors.ServiceUnavailable(c, apperrors.ExportArchiveDisabled, "Export archiving is not available")
			return
		}
		log.Error("Failed to archive orders", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ExportFailed, "Could not archive orders")
		return
	}

	c.JSON(http.StatusCreated, archive)
}
