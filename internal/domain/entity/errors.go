package entity

import "emart/internal/errors"

// Invariant violations reported by entity methods. The usecase layer maps them to application errors.
var (
	ErrProductNameRequired   = errors.New("product name is required")
	ErrProductPriceNegative  = errors.New("product price must not be negative")
	ErrProductStockNegative  = errors.New("product stock must not be negative")
	ErrProductPurchaseLimit  = errors.New("product purchase limit must be positive")
	ErrProductImagesRequired = errors.New("product needs exactly three images")

	ErrReviewMissing        = errors.New("review not found")
	ErrReviewRatingRange    = errors.New("review rating must be between 1 and 5")
	ErrReviewAuthorRequired = errors.New("review author is required")

	ErrCartItemMissing = errors.New("cart item not found")

	ErrInvalidOrderStatus      = errors.New("invalid order status")
	ErrStatusTransitionDenied  = errors.New("order status transition not allowed")
	ErrStatusTransitionByActor = errors.New("actor may not perform this status transition")
	ErrOrderItemsRequired      = errors.New("order needs at least one item")
	ErrCustomerIncomplete      = errors.New("customer name, email, phone, address and city are required")
	ErrTransactionIDRequired   = errors.New("transaction id is required")

	ErrCategoryNameRequired = errors.New("category name is required")
	ErrUserEmailRequired    = errors.New("user email is required")
	ErrUserNameRequired     = errors.New("user name is required")
	ErrMessageTextRequired  = errors.New("message text is required")
	ErrInvalidSender        = errors.New("invalid message sender")
	ErrInvalidThemeColor    = errors.New("invalid theme color")
)
