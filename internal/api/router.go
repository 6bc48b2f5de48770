// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tradeadmin/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(adjustmentHandler *handler.AdjustmentHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Admin back-office routes. Authentication is handled upstream; the
	// operator id arrives in the X-Admin-ID header set by the auth proxy.
	r.Route("/admin/users/{userID}", func(r chi.Router) {
		r.Post("/adjustments/balance", adjustmentHandler.AdjustMainBalance)
		r.Post("/adjustments/pnl", adjustmentHandler.AdjustProfitLoss)
		r.Get("/wallet", adjustmentHandler.GetWallet)
		r.Get("/transactions", adjustmentHandler.GetLedgerHistory)
	})

	return r
}
