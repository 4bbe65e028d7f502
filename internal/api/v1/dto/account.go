package dto

import (
	"time"

	"spaceworks/internal/app/model"
)

// BalanceResponse reports a user's current credit balance.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// TransactionResponse is one ledger row.
type TransactionResponse struct {
	ID            string    `json:"id"`
	SpaceID       string    `json:"space_id"`
	Action        string    `json:"action"`
	Vendor        string    `json:"vendor"`
	Model         string    `json:"model"`
	InputTokens   int64     `json:"input_tokens"`
	OutputTokens  int64     `json:"output_tokens"`
	Cost          int64     `json:"cost"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionListResponse wraps a user's ledger rows.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

// FromTransaction converts a ledger row into its API shape.
func FromTransaction(t model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		SpaceID:       t.SpaceID,
		Action:        string(t.Action),
		Vendor:        t.Vendor,
		Model:         t.Model,
		InputTokens:   t.InputTokens,
		OutputTokens:  t.OutputTokens,
		Cost:          t.Cost,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		CreatedAt:     t.CreatedAt,
	}
}
