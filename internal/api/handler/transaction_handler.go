package handler

import (
	"log/slog"

	"github.com/account-ledger-core/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles HTTP requests for balance operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Use debits an account. When the operation fails for a business reason the
// failure is recorded in the transaction ledger before the error response
// goes out, so every rejected debit leaves an audit trail.
func (h *TransactionHandler) Use(c *gin.Context) {
	var req UseBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.logger.Error("Invalid user ID", "user_id", req.UserID, "error", err)
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	tx, err := h.transactionService.UseBalance(c.Request.Context(), userID, req.AccountNumber, req.Amount)
	if err != nil {
		h.logger.Error("Failed to use balance",
			"account_number", req.AccountNumber,
			"amount", req.Amount,
			"error", err,
		)

		if recordErr := h.transactionService.RecordFailedUse(c.Request.Context(), req.AccountNumber, req.Amount); recordErr != nil {
			h.logger.Error("Failed to record failed use",
				"account_number", req.AccountNumber,
				"error", recordErr,
			)
		}

		status, code, message := mapDomainError(err)
		RespondWithError(c, status, code, message)
		return
	}

	RespondOK(c, mapTransactionToResponse(tx))
}

// Cancel reverses a prior debit. Business failures are recorded in the
// ledger the same way Use records them.
func (h *TransactionHandler) Cancel(c *gin.Context) {
	var req CancelBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tx, err := h.transactionService.CancelBalance(c.Request.Context(), req.TransactionID, req.AccountNumber, req.Amount)
	if err != nil {
		h.logger.Error("Failed to cancel balance use",
			"transaction_id", req.TransactionID,
			"account_number", req.AccountNumber,
			"amount", req.Amount,
			"error", err,
		)

		if recordErr := h.transactionService.RecordFailedCancel(c.Request.Context(), req.AccountNumber, req.Amount); recordErr != nil {
			h.logger.Error("Failed to record failed cancel",
				"account_number", req.AccountNumber,
				"error", recordErr,
			)
		}

		status, code, message := mapDomainError(err)
		RespondWithError(c, status, code, message)
		return
	}

	RespondOK(c, mapTransactionToResponse(tx))
}

// GetByID retrieves a transaction record by its ID, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	transactionID := c.Param("id")
	if transactionID == "" {
		RespondBadRequest(c, "Transaction ID is required")
		return
	}

	tx, err := h.transactionService.QueryTransaction(c.Request.Context(), transactionID)
	if err != nil {
		h.logger.Error("Failed to get transaction", "transaction_id", transactionID, "error", err)
		status, code, message := mapDomainError(err)
		RespondWithError(c, status, code, message)
		return
	}

	RespondOK(c, mapTransactionToResponse(tx))
}
