// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User Management
	KeyUserNotFound      = "user.not_found"
	KeyUserAvatarUpdated = "user.avatar_updated"
	KeyStaffAccessDenied = "user.staff_access_denied"

	// Products
	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyProductNotFound = "product.not_found"

	// Categories
	KeyCategoryCreated  = "category.created"
	KeyCategoryNotFound = "category.not_found"

	// Baskets
	KeyBasketNotFound      = "basket.not_found"
	KeyBasketLineRemoved   = "basket.line_removed"
	KeyBasketLinePurchased = "basket.line_purchased"

	// Orders
	KeyOrderCreated     = "order.created"
	KeyOrderPaid        = "order.paid"
	KeyOrderCanceled    = "order.canceled"
	KeyOrderNotFound    = "order.not_found"
	KeyOrderNotCreated  = "order.not_in_created_state"
	KeyOrderEmptyBasket = "order.empty_basket"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationEmail    = "validation.invalid_email"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"

	// Verification
	KeyVerificationSuccess  = "verification.success"
	KeyVerificationExpired  = "verification.expired"
	KeyVerificationResent   = "verification.resent"
	KeyVerificationNotFound = "verification.not_found"
)
