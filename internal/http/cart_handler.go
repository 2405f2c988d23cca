package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/clients"
	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/domain"
	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/service"
)

// CartOrchestrator is the surface the handlers need from the cart service.
type CartOrchestrator interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, bookID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
	Checkout(ctx context.Context, userID string) (string, error)
}

type CartHandler struct {
	carts   CartOrchestrator
	logger  *zap.Logger
	timeout time.Duration
}

func NewCartHandler(carts CartOrchestrator, logger *zap.Logger, timeout time.Duration) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{
		carts:   carts,
		logger:  logger,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	BookID   string  `json:"bookId"`
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type CartResponseDTO struct {
	UserID     string            `json:"userId"`
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

type CheckoutResponseDTO struct {
	OrderID string `json:"orderId"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func toCartResponse(cart *domain.Cart) CartResponseDTO {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponseDTO{
		UserID:     cart.UserID,
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

// GetCart handles GET /api/cart/{userId}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := chi.URLParam(r, "userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "userId must not be empty")
		return
	}

	cart, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

// AddItem handles POST /api/cart/{userId}/add
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := chi.URLParam(r, "userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "userId must not be empty")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.carts.AddItem(ctx, userID, domain.CartItem{
		BookID:   req.BookID,
		Title:    req.Title,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartResponse(cart))
}

// RemoveItem handles DELETE /api/cart/{userId}/remove/{bookId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := chi.URLParam(r, "userId")
	bookID := chi.URLParam(r, "bookId")
	if userID == "" || bookID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId and bookId must not be empty")
		return
	}

	cart, err := h.carts.RemoveItem(ctx, userID, bookID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

// ClearCart handles DELETE /api/cart/{userId}/clear
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := chi.URLParam(r, "userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "userId must not be empty")
		return
	}

	if err := h.carts.ClearCart(ctx, userID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/cart/{userId}/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := chi.URLParam(r, "userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "userId must not be empty")
		return
	}

	orderID, err := h.carts.Checkout(ctx, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{OrderID: orderID})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the orchestrator's error kinds onto HTTP statuses
// so each distinct condition stays inspectable at the API surface.
func (h *CartHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidItem):
		respondError(w, http.StatusBadRequest, "invalid_item", err.Error())
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, service.ErrOrderRejected):
		respondError(w, http.StatusUnprocessableEntity, "order_rejected", err.Error())
	case errors.Is(err, clients.ErrDependencyUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	default:
		h.logger.Error("unhandled service error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
