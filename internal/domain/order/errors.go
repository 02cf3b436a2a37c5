package order

import "errors"

var (
	ErrUnauthorized   = errors.New("you must be logged in to place an order")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidAddress = errors.New("shipping address is required")
	ErrPersistence    = errors.New("failed to save order")
	ErrOrderNotFound  = errors.New("order not found")
)
