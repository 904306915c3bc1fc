package handler

import (
	"log/slog"

	"github.com/account-ledger-core/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles HTTP requests for account lifecycle operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create opens a new account for the user
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
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

	acc, err := h.accountService.CreateAccount(c.Request.Context(), userID, req.InitialBalance)
	if err != nil {
		h.logger.Error("Failed to create account", "user_id", req.UserID, "error", err)
		status, code, message := mapDomainError(err)
		RespondWithError(c, status, code, message)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// Close transitions the user's account to CLOSED
func (h *AccountHandler) Close(c *gin.Context) {
	var req CloseAccountRequest
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

	acc, err := h.accountService.CloseAccount(c.Request.Context(), userID, req.AccountNumber)
	if err != nil {
		h.logger.Error("Failed to close account",
			"user_id", req.UserID,
			"account_number", req.AccountNumber,
			"error", err,
		)
		status, code, message := mapDomainError(err)
		RespondWithError(c, status, code, message)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// GetByUserID lists the accounts owned by a user
func (h *AccountHandler) GetByUserID(c *gin.Context) {
	userIDParam := c.Query("user_id")
	userID, err := uuid.Parse(userIDParam)
	if err != nil {
		h.logger.Error("Invalid user ID", "user_id", userIDParam, "error", err)
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	accounts, err := h.accountService.GetAccountsByUserID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list accounts", "user_id", userIDParam, "error", err)
		status, code, message := mapDomainError(err)
		RespondWithError(c, status, code, message)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc))
	}

	RespondOK(c, responses)
}
