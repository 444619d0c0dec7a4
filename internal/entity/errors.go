package entity

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrProductUnavailable = errors.New("product not available")
	ErrInsufficientStock  = errors.New("insufficient stock")

	ErrInvalidStatus         = errors.New("invalid order status")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrCancelWindowExpired   = errors.New("order can no longer be cancelled after 24 hours")
	ErrOrderAlreadyCompleted = errors.New("cannot cancel a completed order")
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCategoryInUse      = errors.New("category has active products")
)
