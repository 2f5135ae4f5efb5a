package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own copy.

const (
	// ==================== Session (SESSION_) ====================
	SessionRequired = "SESSION_REQUIRED" // no session token sent
	SessionExpired  = "SESSION_EXPIRED"
	SessionInvalid  = "SESSION_INVALID"
	SessionRevoked  = "SESSION_REVOKED"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Cart (CART_) ====================
	CartInvalidItem = "CART_INVALID_ITEM"
	CartEmpty       = "CART_EMPTY"

	// ==================== Coupon (COUPON_) ====================
	CouponNotFound = "COUPON_NOT_FOUND"

	// ==================== Order (ORDER_) ====================
	OrderNotFound      = "ORDER_NOT_FOUND"
	OrderIDUnavailable = "ORDER_ID_UNAVAILABLE"

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"
	AddressInvalid  = "ADDRESS_INVALID"

	// ==================== Favorite (FAVORITE_) ====================
	FavoriteNotFound = "FAVORITE_NOT_FOUND"

	// ==================== Export (EXPORT_) ====================
	ExportArchiveDisabled = "EXPORT_ARCHIVE_DISABLED"
	ExportFailed          = "EXPORT_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
