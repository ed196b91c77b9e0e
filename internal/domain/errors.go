package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrProductNotFound = errors.New("product not found")
	ErrSKUTaken        = errors.New("sku already exists")

	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not in cart")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoOrderItems     = errors.New("no items to order")

	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotOwned        = errors.New("order belongs to another user")
	ErrInvalidOrderTotal    = errors.New("order total must be positive")
	ErrDuplicateOrder       = errors.New("order already processed for this payment")
	ErrPaymentVerification  = errors.New("payment verification failed")
	ErrOrderNumberExhausted = errors.New("order number generation exhausted")
	ErrInvalidTransition    = errors.New("status transition not allowed")
)
