// internal/api/handler/adjustment.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tradeadmin/internal/api/types"
	"tradeadmin/internal/domain"
	"tradeadmin/internal/service"
	"tradeadmin/internal/util" // For custom errors
)

// DefaultTimeout is the request timeout applied by the router middleware.
const DefaultTimeout = 60 * time.Second

// adminIDHeader carries the authenticated operator id, set by the upstream
// auth proxy. Absent or malformed values fall back to the system sentinel.
const adminIDHeader = "X-Admin-ID"

// AdjustmentHandler handles HTTP requests for admin balance adjustments.
type AdjustmentHandler struct {
	service service.LedgerService
	logger  *slog.Logger
}

// NewAdjustmentHandler creates a new AdjustmentHandler.
func NewAdjustmentHandler(svc service.LedgerService, logger *slog.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{
		service: svc,
		logger:  logger,
	}
}

// Helper function to send JSON responses.
func (h *AdjustmentHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses. Internal details are never
// surfaced; only sentinel errors map to actionable messages.
func (h *AdjustmentHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = "User not found"
	case util.IsError(err, util.ErrWalletNotFound):
		// Data-integrity failure, not a caller mistake: reported as a
		// server-side error, details stay in the logs.
		h.logger.Error("Wallet integrity failure", "error", err)
	case util.IsError(err, util.ErrRateUnavailable):
		statusCode = http.StatusBadGateway
		message = "Exchange rate unavailable for the requested asset"
	case util.IsError(err, util.ErrBalanceFloor):
		statusCode = http.StatusUnprocessableEntity
		message = "Adjustment rejected: it would drive the wallet balance negative"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

func (h *AdjustmentHandler) adminID(r *http.Request) int64 {
	raw := r.Header.Get(adminIDHeader)
	if raw == "" {
		return service.SystemAdminID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return service.SystemAdminID
	}
	return id
}

func userIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
}

// AdjustBalanceRequest represents the request body for a main-balance
// adjustment.
type AdjustBalanceRequest struct {
	AssetCode string          `json:"asset_code"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
	Notes     string          `json:"notes"`
}

// AdjustMainBalance handles the main-balance adjustment request.
// POST /admin/users/{userID}/adjustments/balance
func (h *AdjustmentHandler) AdjustMainBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, util.ErrValidation)
		return
	}

	var req AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrValidation)
		return
	}

	wallet, entry, err := h.service.AdjustMainBalance(r.Context(), service.AdjustMainBalanceInput{
		UserID:      userID,
		AssetCode:   req.AssetCode,
		AssetAmount: req.Amount,
		Direction:   service.AdjustmentDirection(req.Direction),
		Notes:       req.Notes,
		AdminID:     h.adminID(r),
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":               "Balance adjustment processed",
		"wallet_id":             wallet.ID,
		"new_balance":           wallet.Balance,
		"transaction_id":        entry.ID,
		"transaction_reference": entry.Reference,
	})
}

// AdjustProfitLossRequest represents the request body for a P&L adjustment.
type AdjustProfitLossRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

// AdjustProfitLoss handles the P&L adjustment request.
// POST /admin/users/{userID}/adjustments/pnl
func (h *AdjustmentHandler) AdjustProfitLoss(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, util.ErrValidation)
		return
	}

	var req AdjustProfitLossRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrValidation)
		return
	}

	wallet, entry, err := h.service.AdjustProfitLoss(r.Context(), service.AdjustProfitLossInput{
		UserID:  userID,
		Amount:  req.Amount,
		Notes:   req.Notes,
		AdminID: h.adminID(r),
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":               "P&L adjustment processed",
		"wallet_id":             wallet.ID,
		"new_profit_loss":       wallet.ProfitLossBalance,
		"transaction_id":        entry.ID,
		"transaction_reference": entry.Reference,
	})
}

// GetWallet handles the wallet snapshot request.
// GET /admin/users/{userID}/wallet
func (h *AdjustmentHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, util.ErrValidation)
		return
	}

	wallet, err := h.service.GetWallet(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, wallet)
}

// GetLedgerHistory handles the ledger audit-trail request.
// GET /admin/users/{userID}/transactions
func (h *AdjustmentHandler) GetLedgerHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, util.ErrValidation)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	transactions, totalCount, err := h.service.GetLedgerHistory(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
