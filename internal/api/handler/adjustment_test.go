// internal/api/handler/adjustment_test.go
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradeadmin/internal/domain"
	"tradeadmin/internal/service"
	"tradeadmin/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLedgerService is a mock implementation of service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AdjustMainBalance(ctx context.Context, in service.AdjustMainBalanceInput) (*domain.Wallet, *domain.Transaction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockLedgerService) AdjustProfitLoss(ctx context.Context, in service.AdjustProfitLossInput) (*domain.Wallet, *domain.Transaction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockLedgerService) GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockLedgerService) GetLedgerHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func newTestRouter(svc service.LedgerService) http.Handler {
	h := NewAdjustmentHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Route("/admin/users/{userID}", func(r chi.Router) {
		r.Post("/adjustments/balance", h.AdjustMainBalance)
		r.Post("/adjustments/pnl", h.AdjustProfitLoss)
		r.Get("/wallet", h.GetWallet)
		r.Get("/transactions", h.GetLedgerHistory)
	})
	return r
}

func TestAdjustMainBalanceHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		wallet := &domain.Wallet{ID: 7, UserID: 42, Balance: decimal.RequireFromString("2100.00")}
		entry := &domain.Transaction{ID: 99, Type: domain.TransactionTypeAdjustment}

		mockService.On("AdjustMainBalance", mock.Anything, mock.MatchedBy(func(in service.AdjustMainBalanceInput) bool {
			return in.UserID == 42 &&
				in.AssetCode == "BTC" &&
				in.AssetAmount.Equal(decimal.RequireFromString("0.01")) &&
				in.Direction == service.DirectionCredit &&
				in.AdminID == 3
		})).Return(wallet, entry, nil).Once()

		body, _ := json.Marshal(AdjustBalanceRequest{
			AssetCode: "BTC",
			Amount:    decimal.RequireFromString("0.01"),
			Direction: "CREDIT",
			Notes:     "manual correction after support ticket #4411",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/users/42/adjustments/balance", bytes.NewReader(body))
		req.Header.Set("X-Admin-ID", "3")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Balance adjustment processed", resp["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("MissingAdminHeaderFallsBackToSentinel", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		wallet := &domain.Wallet{ID: 7, UserID: 42}
		entry := &domain.Transaction{ID: 99}

		mockService.On("AdjustMainBalance", mock.Anything, mock.MatchedBy(func(in service.AdjustMainBalanceInput) bool {
			return in.AdminID == service.SystemAdminID
		})).Return(wallet, entry, nil).Once()

		body, _ := json.Marshal(AdjustBalanceRequest{
			AssetCode: "USDT",
			Amount:    decimal.NewFromInt(10),
			Direction: "CREDIT",
			Notes:     "manual correction after support ticket #4411",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/users/42/adjustments/balance", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("BalanceFloorRejectionIsActionable", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		mockService.On("AdjustMainBalance", mock.Anything, mock.Anything).
			Return(nil, nil, util.ErrBalanceFloor).Once()

		body, _ := json.Marshal(AdjustBalanceRequest{
			AssetCode: "USDT",
			Amount:    decimal.NewFromInt(500),
			Direction: "DEBIT",
			Notes:     "manual correction after support ticket #4411",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/users/42/adjustments/balance", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "drive the wallet balance negative")
		mockService.AssertExpectations(t)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		mockService.On("AdjustMainBalance", mock.Anything, mock.Anything).
			Return(nil, nil, util.ErrUserNotFound).Once()

		body, _ := json.Marshal(AdjustBalanceRequest{
			AssetCode: "USDT",
			Amount:    decimal.NewFromInt(10),
			Direction: "CREDIT",
			Notes:     "manual correction after support ticket #4411",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/users/42/adjustments/balance", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("WalletIntegrityFailureStaysInternal", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		mockService.On("AdjustMainBalance", mock.Anything, mock.Anything).
			Return(nil, nil, util.ErrWalletNotFound).Once()

		body, _ := json.Marshal(AdjustBalanceRequest{
			AssetCode: "USDT",
			Amount:    decimal.NewFromInt(10),
			Direction: "CREDIT",
			Notes:     "manual correction after support ticket #4411",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/users/42/adjustments/balance", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "wallet record missing")
		mockService.AssertExpectations(t)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		req := httptest.NewRequest(http.MethodPost, "/admin/users/42/adjustments/balance",
			bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "AdjustMainBalance", mock.Anything, mock.Anything)
	})

	t.Run("MalformedUserID", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		req := httptest.NewRequest(http.MethodPost, "/admin/users/abc/adjustments/balance",
			bytes.NewReader([]byte("{}")))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "AdjustMainBalance", mock.Anything, mock.Anything)
	})
}

func TestAdjustProfitLossHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		wallet := &domain.Wallet{ID: 7, UserID: 42, ProfitLossBalance: decimal.RequireFromString("-250.50")}
		entry := &domain.Transaction{ID: 100}

		mockService.On("AdjustProfitLoss", mock.Anything, mock.MatchedBy(func(in service.AdjustProfitLossInput) bool {
			return in.UserID == 42 && in.Amount.Equal(decimal.RequireFromString("-250.50"))
		})).Return(wallet, entry, nil).Once()

		body, _ := json.Marshal(AdjustProfitLossRequest{
			Amount: decimal.RequireFromString("-250.50"),
			Notes:  "manual correction after support ticket #4411",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/users/42/adjustments/pnl", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationErrorFromService", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		mockService.On("AdjustProfitLoss", mock.Anything, mock.Anything).
			Return(nil, nil, util.ErrValidation).Once()

		body, _ := json.Marshal(AdjustProfitLossRequest{Amount: decimal.Zero, Notes: "short"})
		req := httptest.NewRequest(http.MethodPost, "/admin/users/42/adjustments/pnl", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestGetWalletHandler(t *testing.T) {
	mockService := new(MockLedgerService)
	router := newTestRouter(mockService)

	wallet := &domain.Wallet{ID: 7, UserID: 42, Balance: decimal.RequireFromString("1500.00")}
	mockService.On("GetWallet", mock.Anything, int64(42)).Return(wallet, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/admin/users/42/wallet", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.Wallet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.ID)
	assert.True(t, got.Balance.Equal(wallet.Balance))
	mockService.AssertExpectations(t)
}

func TestGetLedgerHistoryHandler(t *testing.T) {
	t.Run("DefaultsPagination", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		entries := []domain.Transaction{{ID: 1, UserID: 42}}
		mockService.On("GetLedgerHistory", mock.Anything, int64(42), 20, 0).
			Return(entries, int64(1), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/admin/users/42/transactions", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_count":1`)
		mockService.AssertExpectations(t)
	})

	t.Run("ClampsOversizedLimit", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newTestRouter(mockService)

		mockService.On("GetLedgerHistory", mock.Anything, int64(42), 20, 5).
			Return([]domain.Transaction{}, int64(0), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/admin/users/42/transactions?limit=5000&offset=5", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})
}
