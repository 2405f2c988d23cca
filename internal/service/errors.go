package service

import "errors"

var (
	// ErrInvalidItem rejects malformed items before any side effect.
	ErrInvalidItem = errors.New("invalid cart item")
	// ErrInsufficientStock means the stock-check service reported less
	// available than requested. The cart is left unchanged.
	ErrInsufficientStock = errors.New("not enough stock available")
	// ErrEmptyCart rejects checkout before any external call is made.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	// ErrOrderRejected carries the order service's message. The cart is
	// kept so the user can adjust and retry.
	ErrOrderRejected = errors.New("order rejected")
)
