package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/clients"
	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/domain"
	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/repository"
)

// CartService orchestrates the cart lifecycle against the cart store, the
// stock-check service and the order service. It keeps no state between
// calls, every operation is a full read-modify-write against the store.
//
// Two concurrent mutations for the same user race on the whole cart value:
// the store's single-key consistency makes the result last-write-wins. That
// is accepted behavior, the service does not take locks or version the cart.
type CartService struct {
	repo   repository.CartRepository
	stock  clients.StockChecker
	orders clients.OrderPlacer
	logger *zap.Logger
}

func NewCartService(
	repo repository.CartRepository,
	stock clients.StockChecker,
	orders clients.OrderPlacer,
	logger *zap.Logger,
) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		repo:   repo,
		stock:  stock,
		orders: orders,
		logger: logger,
	}
}

// GetCart is a pure read-through. A user without a stored cart gets an
// empty one, absence is never an error.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.GetCart(ctx, userID)
}

// AddItem validates the item, gates it on a stock check and persists the
// cart with the line replaced. Re-adding a book overwrites its prior line
// rather than summing quantities. The stock check and the write are not
// atomic with each other, a race between them is tolerated.
func (s *CartService) AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	if item.BookID == "" {
		return nil, fmt.Errorf("%w: bookId must not be empty", ErrInvalidItem)
	}
	if item.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidItem)
	}
	if item.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidItem)
	}

	result, err := s.stock.CheckStock(ctx, item.BookID, item.Quantity)
	if err != nil {
		return nil, err
	}
	if !result.InStock {
		return nil, fmt.Errorf("%w for book %s", ErrInsufficientStock, item.BookID)
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = append(removeBook(cart.Items, item.BookID), item)
	if err := s.repo.PutCart(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Info("item added to cart",
		zap.String("user_id", userID),
		zap.String("book_id", item.BookID),
		zap.Int("quantity", item.Quantity))
	return cart, nil
}

// RemoveItem filters the book out of the cart and persists it. Removing a
// book that is not in the cart is a no-op success.
func (s *CartService) RemoveItem(ctx context.Context, userID, bookID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = removeBook(cart.Items, bookID)
	if err := s.repo.PutCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart deletes the stored cart unconditionally. Idempotent.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.repo.DeleteCart(ctx, userID)
}

// Checkout snapshots the cart into an order request, submits it and clears
// the cart only on a declared success. Concurrent cart mutations after the
// snapshot are not reflected in the order.
func (s *CartService) Checkout(ctx context.Context, userID string) (string, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return "", err
	}
	if cart.IsEmpty() {
		return "", ErrEmptyCart
	}

	request := &domain.OrderRequest{
		UserID: userID,
		Items:  make([]domain.OrderItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		request.Items = append(request.Items, domain.OrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		})
	}

	outcome, err := s.orders.PlaceOrder(ctx, request)
	if err != nil {
		return "", err
	}
	if !outcome.Succeeded() {
		return "", fmt.Errorf("%w: %s", ErrOrderRejected, outcome.Message)
	}

	// Best effort: the order already stands, a failed clear must not be
	// reported as an order failure or a retry could double-order.
	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		s.logger.Warn("order placed but cart clear failed",
			zap.String("user_id", userID),
			zap.String("order_id", outcome.OrderID),
			zap.Error(err))
	}

	s.logger.Info("checkout completed",
		zap.String("user_id", userID),
		zap.String("order_id", outcome.OrderID),
		zap.Int("items", len(request.Items)))
	return outcome.OrderID, nil
}

func removeBook(items []domain.CartItem, bookID string) []domain.CartItem {
	kept := items[:0]
	for _, item := range items {
		if item.BookID != bookID {
			kept = append(kept, item)
		}
	}
	return kept
}
