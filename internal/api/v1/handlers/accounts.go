package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "spaceworks/internal/api/errors"
	"spaceworks/internal/api/middleware"
	"spaceworks/internal/api/v1/dto"
	apperrors "spaceworks/internal/app/errors"
	"spaceworks/internal/app/repository"
)

// AccountHandler exposes balance and ledger reads.
type AccountHandler struct {
	accounts repository.AccountDAO
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts repository.AccountDAO) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// GetBalance returns the user's current credit balance.
func (h *AccountHandler) GetBalance(c *gin.Context) {
	userID := c.Param("id")

	balance, err := h.accounts.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			middleware.HandleError(c, apierrors.NewNotFoundError("account"))
			return
		}
		middleware.HandleError(c, apierrors.NewInternalError("failed to read balance: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{UserID: userID, Balance: balance})
}

// ListTransactions returns the user's ledger rows, newest first.
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	userID := c.Param("id")

	transactions, err := h.accounts.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleError(c, apierrors.NewInternalError("failed to list transactions: "+err.Error()))
		return
	}

	resp := dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(transactions)),
		Total:        len(transactions),
	}
	for _, t := range transactions {
		resp.Transactions = append(resp.Transactions, dto.FromTransaction(t))
	}
	c.JSON(http.StatusOK, resp)
}
