package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	apperrors "github.com/ikkim/beautycart-backend/internal/errors"
	"github.com/ikkim/beautycart-backend/internal/middleware"
	"github.com/ikkim/beautycart-backend/pkg/logger"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

func parseAddressID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid address id")
		return 0, false
	}
	return uint(id), true
}

func respondAddressError(c *gin.Context, log *logger.Logger, err error, sessionID, action string) {
	var validationErr *service.AddressValidationError
	switch {
	case errors.As(err, &validationErr):
		apperrors.RespondWithValidationError(c, apperrors.AddressInvalid, validationErr.Fields)
	case errors.Is(err, service.ErrAddressNotFound):
		apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
	default:
		log.Error("Failed to "+action, err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
	}
}

// ListAddresses returns the session's saved addresses
// GET /api/v1/addresses
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	addresses, err := ctrl.addressService.ListAddresses(sessionID)
	if err != nil {
		respondAddressError(c, log, err, sessionID, "fetch addresses")
		return
	}

	log.Info("Addresses fetched successfully", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(addresses),
	})

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// CreateAddress adds an address
// POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	var req service.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create address request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	address, err := ctrl.addressService.AddAddress(sessionID, req)
	if err != nil {
		respondAddressError(c, log, err, sessionID, "create address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address created successfully",
		"address": address,
	})
}

// UpdateAddress replaces an address's fields
// PUT /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}
	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}

	var req service.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	address, err := ctrl.addressService.UpdateAddress(sessionID, addressID, req)
	if err != nil {
		respondAddressError(c, log, err, sessionID, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"address": address,
	})
}

// DeleteAddress removes an address
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}
	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}

	if err := ctrl.addressService.RemoveAddress(sessionID, addressID); err != nil {
		respondAddressError(c, log, err, sessionID, "delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
	})
}
