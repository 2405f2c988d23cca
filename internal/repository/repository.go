package repository

import (
	"context"

	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/domain"
)

// CartRepository defines the interface for cart storage operations.
// Consumers define this interface, not the Redis implementation.
type CartRepository interface {
	// GetCart returns the stored cart, or a fresh empty cart when none
	// exists. Absence is not an error.
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	// PutCart overwrites the stored cart as a whole. No merge semantics.
	PutCart(ctx context.Context, cart *domain.Cart) error
	// DeleteCart removes the cart entirely. Deleting an absent cart is a no-op.
	DeleteCart(ctx context.Context, userID string) error
}
