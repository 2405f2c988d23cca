package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter assembles the REST surface of the cart service.
func NewRouter(handler *CartHandler, logger *zap.Logger, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/cart/{userId}", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Post("/add", handler.AddItem)
		r.Delete("/remove/{bookId}", handler.RemoveItem)
		r.Delete("/clear", handler.ClearCart)
		r.Post("/checkout", handler.Checkout)
	})

	return r
}
