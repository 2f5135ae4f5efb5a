package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	apperrors "github.com/ikkim/beautycart-backend/internal/errors"
	"github.com/ikkim/beautycart-backend/internal/middleware"
)

type CouponController struct {
	cartService service.CartService
}

func NewCouponController(cartService service.CartService) *CouponController {
	return &CouponController{
		cartService: cartService,
	}
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

func respondCouponNotFound(c *gin.Context, code string) {
	apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon "+code+" does not exist")
}

// ListCoupons returns the catalog with what each coupon would save now
// GET /api/v1/coupons
func (ctrl *CouponController) ListCoupons(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	previews, err := ctrl.cartService.ListCoupons(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to list coupons", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to list coupons")
		return
	}

	coupons := make([]CouponResponse, 0, len(previews))
	for _, p := range previews {
		coupons = append(coupons, newCouponResponse(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"coupons": coupons,
		"count":   len(coupons),
	})
}

// CalculateSavings previews a coupon without applying it
// GET /api/v1/coupons/:code/savings
func (ctrl *CouponController) CalculateSavings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}
	code := c.Param("code")

	savings, err := ctrl.cartService.CalculateSavings(c.Request.Context(), sessionID, code)
	if err != nil {
		if errors.Is(err, checkout.ErrCouponNotFound) {
			respondCouponNotFound(c, code)
			return
		}
		log.Error("Failed to calculate coupon savings", err, map[string]interface{}{
			"session_id":  sessionID,
			"coupon_code": code,
		})
		apperrors.InternalError(c, "Failed to calculate savings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    code,
		"savings": amount(savings),
	})
}

// ApplyCoupon applies a code, replacing any active one
// POST /api/v1/cart/coupon
func (ctrl *CouponController) ApplyCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Coupon code is required")
		return
	}

	view, err := ctrl.cartService.ApplyCoupon(c.Request.Context(), sessionID, req.Code)
	if err != nil {
		if errors.Is(err, checkout.ErrCouponNotFound) {
			respondCouponNotFound(c, req.Code)
			return
		}
		respondCartError(c, log, err, sessionID, "apply coupon")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(view))
}

// RemoveCoupon clears the applied coupon
// DELETE /api/v1/cart/coupon
func (ctrl *CouponController) RemoveCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.RemoveCoupon(c.Request.Context(), sessionID)
	if err != nil {
		respondCartError(c, log, err, sessionID, "remove coupon")
		return
	}

	c.JSON(http.StatusOK, newCartResponse(view))
}
