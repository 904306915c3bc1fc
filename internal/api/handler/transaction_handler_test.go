package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/account-ledger-core/internal/domain/account"
	"github.com/account-ledger-core/internal/domain/transaction"
	"github.com/account-ledger-core/internal/locking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) UseBalance(ctx context.Context, userID uuid.UUID, accountNumber string, amount int64) (*transaction.Transaction, error) {
	args := m.Called(ctx, userID, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*transaction.Transaction, error) {
	args := m.Called(ctx, transactionID, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) QueryTransaction(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) RecordFailedUse(ctx context.Context, accountNumber string, amount int64) error {
	args := m.Called(ctx, accountNumber, amount)
	return args.Error(0)
}

func (m *MockTransactionService) RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) error {
	args := m.Called(ctx, accountNumber, amount)
	return args.Error(0)
}

func testHandlerLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func successTransaction(txType transaction.Type, accountNumber string, amount, snapshot int64) *transaction.Transaction {
	return &transaction.Transaction{
		TransactionID:   transaction.NewTransactionID(),
		Type:            txType,
		Result:          transaction.ResultSuccess,
		AccountID:       uuid.New(),
		AccountNumber:   accountNumber,
		Amount:          amount,
		BalanceSnapshot: snapshot,
		TransactedAt:    time.Now(),
	}
}

func TestTransactionHandler_Use(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(h *TransactionHandler) *gin.Engine {
		router := gin.New()
		router.POST("/transactions/use", h.Use)
		return router
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testHandlerLogger(), mockService)
		router := newRouter(handler)

		userID := uuid.New()
		expected := successTransaction(transaction.TypeUse, "1234567890", 1200, 8800)
		mockService.On("UseBalance", mock.Anything, userID, "1234567890", int64(1200)).Return(expected, nil).Once()

		body, _ := json.Marshal(UseBalanceRequest{
			UserID:        userID.String(),
			AccountNumber: "1234567890",
			Amount:        1200,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data, _ := json.Marshal(resp.Data)
		var txResp TransactionResponse
		require.NoError(t, json.Unmarshal(data, &txResp))
		assert.Equal(t, expected.TransactionID, txResp.TransactionID)
		assert.Equal(t, int64(8800), txResp.BalanceSnapshot)

		mockService.AssertNotCalled(t, "RecordFailedUse", mock.Anything, mock.Anything, mock.Anything)
		mockService.AssertExpectations(t)
	})

	t.Run("InsufficientBalanceRecordsFailure", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testHandlerLogger(), mockService)
		router := newRouter(handler)

		userID := uuid.New()
		mockService.On("UseBalance", mock.Anything, userID, "1234567890", int64(20000)).
			Return(nil, account.ErrInsufficientBalance).Once()
		mockService.On("RecordFailedUse", mock.Anything, "1234567890", int64(20000)).Return(nil).Once()

		body, _ := json.Marshal(UseBalanceRequest{
			UserID:        userID.String(),
			AccountNumber: "1234567890",
			Amount:        20000,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INSUFFICIENT_BALANCE", resp.Error.Code)

		mockService.AssertExpectations(t)
	})

	t.Run("AccountBusy", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testHandlerLogger(), mockService)
		router := newRouter(handler)

		userID := uuid.New()
		mockService.On("UseBalance", mock.Anything, userID, "1234567890", int64(1200)).
			Return(nil, fmt.Errorf("%w: 1234567890", locking.ErrAccountInUse)).Once()
		mockService.On("RecordFailedUse", mock.Anything, "1234567890", int64(1200)).Return(nil).Once()

		body, _ := json.Marshal(UseBalanceRequest{
			UserID:        userID.String(),
			AccountNumber: "1234567890",
			Amount:        1200,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ACCOUNT_IN_USE", resp.Error.Code)
	})

	t.Run("AmountBelowMinimum", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testHandlerLogger(), mockService)
		router := newRouter(handler)

		body, _ := json.Marshal(UseBalanceRequest{
			UserID:        uuid.New().String(),
			AccountNumber: "1234567890",
			Amount:        5,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UseBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AccountNumberWrongLength", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testHandlerLogger(), mockService)
		router := newRouter(handler)

		body, _ := json.Marshal(UseBalanceRequest{
			UserID:        uuid.New().String(),
			AccountNumber: "12345",
			Amount:        1200,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UseBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTransactionHandler_Cancel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(h *TransactionHandler) *gin.Engine {
		router := gin.New()
		router.POST("/transactions/cancel", h.Cancel)
		return router
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testHandlerLogger(), mockService)
		router := newRouter(handler)

		originalID := transaction.NewTransactionID()
		expected := successTransaction(transaction.TypeCancel, "1234567890", 1200, 10000)
		mockService.On("CancelBalance", mock.Anything, originalID, "1234567890", int64(1200)).Return(expected, nil).Once()

		body, _ := json.Marshal(CancelBalanceRequest{
			TransactionID: originalID,
			AccountNumber: "1234567890",
			Amount:        1200,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/cancel", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertNotCalled(t, "RecordFailedCancel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AmountMismatchRecordsFailure", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testHandlerLogger(), mockService)
		router := newRouter(handler)

		originalID := transaction.NewTransactionID()
		mockService.On("CancelBalance", mock.Anything, originalID, "1234567890", int64(600)).
			Return(nil, transaction.ErrCancelAmountMismatch).Once()
		mockService.On("RecordFailedCancel", mock.Anything, "1234567890", int64(600)).Return(nil).Once()

		body, _ := json.Marshal(CancelBalanceRequest{
			TransactionID: originalID,
			AccountNumber: "1234567890",
			Amount:        600,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/cancel", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "CANCEL_AMOUNT_MISMATCH", resp.Error.Code)

		mockService.AssertExpectations(t)
	})
}

func TestTransactionHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(h *TransactionHandler) *gin.Engine {
		router := gin.New()
		router.GET("/transactions/:id", h.GetByID)
		return router
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testHandlerLogger(), mockService)
		router := newRouter(handler)

		stored := successTransaction(transaction.TypeUse, "1234567890", 1200, 8800)
		mockService.On("QueryTransaction", mock.Anything, stored.TransactionID).Return(stored, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/transactions/"+stored.TransactionID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testHandlerLogger(), mockService)
		router := newRouter(handler)

		txID := transaction.NewTransactionID()
		mockService.On("QueryTransaction", mock.Anything, txID).
			Return(nil, transaction.ErrTransactionNotFound{TransactionID: txID}).Once()

		req := httptest.NewRequest(http.MethodGet, "/transactions/"+txID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "TRANSACTION_NOT_FOUND", resp.Error.Code)
	})
}
