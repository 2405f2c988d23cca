package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/clients"
	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/domain"
)

type mockRepository struct {
	m       sync.RWMutex
	carts   map[string]*domain.Cart
	getErr  error
	putErr  error
	delErr  error
	puts    int
	deletes int
}

func newMockRepository() *mockRepository {
	return &mockRepository{carts: make(map[string]*domain.Cart)}
}

func (m *mockRepository) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if cart, ok := m.carts[userID]; ok {
		// Return a copy, callers mutate the result.
		items := make([]domain.CartItem, len(cart.Items))
		copy(items, cart.Items)
		return &domain.Cart{UserID: cart.UserID, Items: items}, nil
	}
	return domain.NewEmptyCart(userID), nil
}

func (m *mockRepository) PutCart(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockRepository) DeleteCart(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.carts, userID)
	return nil
}

type mockStockChecker struct {
	m       sync.Mutex
	inStock bool
	err     error
	calls   int
}

func (m *mockStockChecker) CheckStock(_ context.Context, bookID string, quantity int) (*domain.StockCheckResult, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.StockCheckResult{BookID: bookID, InStock: m.inStock}, nil
}

type mockOrderPlacer struct {
	m       sync.Mutex
	outcome *domain.OrderOutcome
	err     error
	calls   int
	request *domain.OrderRequest
}

func (m *mockOrderPlacer) PlaceOrder(_ context.Context, request *domain.OrderRequest) (*domain.OrderOutcome, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls++
	m.request = request
	if m.err != nil {
		return nil, m.err
	}
	return m.outcome, nil
}

func newSut(repo *mockRepository, stock *mockStockChecker, orders *mockOrderPlacer) *CartService {
	return NewCartService(repo, stock, orders, zap.NewNop())
}

func TestGetCart_EmptyForNewUser(t *testing.T) {
	sut := newSut(newMockRepository(), &mockStockChecker{inStock: true}, &mockOrderPlacer{})

	cart, err := sut.GetCart(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, "user123", cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestAddItem_Success(t *testing.T) {
	repo := newMockRepository()
	stock := &mockStockChecker{inStock: true}
	sut := newSut(repo, stock, &mockOrderPlacer{})

	cart, err := sut.AddItem(context.Background(), "user123", domain.CartItem{
		BookID: "book-1", Title: "1984", Quantity: 2, Price: 13.99,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "book-1", cart.Items[0].BookID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 1, stock.calls)
	assert.Equal(t, 1, repo.puts)

	stored, err := sut.GetCart(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, stored.Items)
}

func TestAddItem_SameBook_ReplacesNotMerges(t *testing.T) {
	repo := newMockRepository()
	sut := newSut(repo, &mockStockChecker{inStock: true}, &mockOrderPlacer{})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 2, Price: 10.00})
	require.NoError(t, err)
	cart, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 5, Price: 10.00})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity, "second add replaces the line, quantities are not summed")
}

func TestAddItem_KeepsOtherLines(t *testing.T) {
	repo := newMockRepository()
	sut := newSut(repo, &mockStockChecker{inStock: true}, &mockOrderPlacer{})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 1, Price: 10.00})
	require.NoError(t, err)
	cart, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-2", Quantity: 3, Price: 12.50})
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "book-1", cart.Items[0].BookID)
	assert.Equal(t, "book-2", cart.Items[1].BookID)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	repo := newMockRepository()
	stock := &mockStockChecker{inStock: true}
	sut := newSut(repo, stock, &mockOrderPlacer{})

	_, err := sut.AddItem(context.Background(), "user123", domain.CartItem{BookID: "book-1", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidItem)
	assert.Equal(t, 0, stock.calls, "validation failures must not reach the stock service")
	assert.Equal(t, 0, repo.puts)
}

func TestAddItem_EmptyBookID(t *testing.T) {
	sut := newSut(newMockRepository(), &mockStockChecker{inStock: true}, &mockOrderPlacer{})

	_, err := sut.AddItem(context.Background(), "user123", domain.CartItem{BookID: "", Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestAddItem_NegativePrice(t *testing.T) {
	sut := newSut(newMockRepository(), &mockStockChecker{inStock: true}, &mockOrderPlacer{})

	_, err := sut.AddItem(context.Background(), "user123", domain.CartItem{BookID: "book-1", Quantity: 1, Price: -1})
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestAddItem_OutOfStock_CartUnchanged(t *testing.T) {
	repo := newMockRepository()
	sut := newSut(repo, &mockStockChecker{inStock: true}, &mockOrderPlacer{})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 1, Price: 10.00})
	require.NoError(t, err)
	before, err := sut.GetCart(ctx, "user123")
	require.NoError(t, err)

	outOfStock := &mockStockChecker{inStock: false}
	sut2 := newSut(repo, outOfStock, &mockOrderPlacer{})
	_, err = sut2.AddItem(ctx, "user123", domain.CartItem{BookID: "book-2", Quantity: 99, Price: 5.00})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	after, err := sut2.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, before.Items, after.Items)
}

func TestAddItem_StockServiceDown(t *testing.T) {
	repo := newMockRepository()
	stock := &mockStockChecker{err: clients.ErrDependencyUnavailable}
	sut := newSut(repo, stock, &mockOrderPlacer{})

	_, err := sut.AddItem(context.Background(), "user123", domain.CartItem{BookID: "book-1", Quantity: 1})
	assert.ErrorIs(t, err, clients.ErrDependencyUnavailable)
	assert.Equal(t, 0, repo.puts, "no cart mutation on stock service failure")
}

func TestRemoveItem_Success(t *testing.T) {
	repo := newMockRepository()
	sut := newSut(repo, &mockStockChecker{inStock: true}, &mockOrderPlacer{})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 1, Price: 10.00})
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-2", Quantity: 2, Price: 12.00})
	require.NoError(t, err)

	cart, err := sut.RemoveItem(ctx, "user123", "book-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "book-2", cart.Items[0].BookID)
}

func TestRemoveItem_NotPresent_IsNoOpSuccess(t *testing.T) {
	repo := newMockRepository()
	sut := newSut(repo, &mockStockChecker{inStock: true}, &mockOrderPlacer{})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 1, Price: 10.00})
	require.NoError(t, err)

	cart, err := sut.RemoveItem(ctx, "user123", "book-404")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "book-1", cart.Items[0].BookID)
}

func TestClearCart_Idempotent(t *testing.T) {
	repo := newMockRepository()
	sut := newSut(repo, &mockStockChecker{inStock: true}, &mockOrderPlacer{})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 1, Price: 10.00})
	require.NoError(t, err)

	require.NoError(t, sut.ClearCart(ctx, "user123"))
	require.NoError(t, sut.ClearCart(ctx, "user123"))

	cart, err := sut.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCheckout_EmptyCart_NoOrderCall(t *testing.T) {
	orders := &mockOrderPlacer{}
	sut := newSut(newMockRepository(), &mockStockChecker{inStock: true}, orders)

	_, err := sut.Checkout(context.Background(), "user123")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, orders.calls, "empty cart must not reach the order service")
}

func TestCheckout_Rejected_CartKept(t *testing.T) {
	repo := newMockRepository()
	orders := &mockOrderPlacer{outcome: &domain.OrderOutcome{Status: "failed", Message: "payment declined"}}
	sut := newSut(repo, &mockStockChecker{inStock: true}, orders)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 1, Price: 10.00})
	require.NoError(t, err)

	_, err = sut.Checkout(ctx, "user123")
	assert.ErrorIs(t, err, ErrOrderRejected)
	assert.ErrorContains(t, err, "payment declined")

	cart, err := sut.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "cart is kept so the user can retry or adjust")
}

func TestCheckout_OrderServiceDown_CartKept(t *testing.T) {
	repo := newMockRepository()
	orders := &mockOrderPlacer{err: clients.ErrDependencyUnavailable}
	sut := newSut(repo, &mockStockChecker{inStock: true}, orders)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 1, Price: 10.00})
	require.NoError(t, err)

	_, err = sut.Checkout(ctx, "user123")
	assert.ErrorIs(t, err, clients.ErrDependencyUnavailable)

	cart, err := sut.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCheckout_Success(t *testing.T) {
	repo := newMockRepository()
	orders := &mockOrderPlacer{outcome: &domain.OrderOutcome{Status: "success", OrderID: "ord-123"}}
	sut := newSut(repo, &mockStockChecker{inStock: true}, orders)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "bookA", Title: "Clean Code", Quantity: 2, Price: 10.00})
	require.NoError(t, err)

	orderID, err := sut.Checkout(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, "ord-123", orderID)
	assert.Equal(t, 1, orders.calls)

	// The order request is a snapshot of the cart lines.
	require.NotNil(t, orders.request)
	assert.Equal(t, "user123", orders.request.UserID)
	require.Len(t, orders.request.Items, 1)
	assert.Equal(t, "bookA", orders.request.Items[0].BookID)
	assert.Equal(t, 2, orders.request.Items[0].Quantity)

	cart, err := sut.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "cart is cleared after a successful checkout")
}

func TestCheckout_ClearFails_OrderStillReturned(t *testing.T) {
	repo := newMockRepository()
	orders := &mockOrderPlacer{outcome: &domain.OrderOutcome{Status: "success", OrderID: "ord-123"}}
	sut := newSut(repo, &mockStockChecker{inStock: true}, orders)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "user123", domain.CartItem{BookID: "book-1", Quantity: 1, Price: 10.00})
	require.NoError(t, err)

	// The clear step is best effort: the order already stands.
	repo.delErr = fmt.Errorf("redis delete failed")
	orderID, err := sut.Checkout(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, "ord-123", orderID)
	assert.Equal(t, 1, repo.deletes)
}

func TestCheckout_StoreDown(t *testing.T) {
	repo := newMockRepository()
	repo.getErr = fmt.Errorf("redis get failed")
	orders := &mockOrderPlacer{}
	sut := newSut(repo, &mockStockChecker{inStock: true}, orders)

	_, err := sut.Checkout(context.Background(), "user123")
	require.Error(t, err)
	assert.Equal(t, 0, orders.calls)
}
