package repository

import (
	"context"

	"spaceworks/internal/app/model"
)

// AccountDAO is the narrow accounts surface this core needs: balance reads,
// the one conditional debit that must be atomic across processes, and the
// append-only transaction log.
type AccountDAO interface {
	// GetBalance returns the current credit balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// DebitIfSufficient atomically subtracts cost from the user's balance,
	// but only when the stored balance is still >= cost at write time. It
	// returns the balance before and after the debit, or
	// errors.ErrInsufficientCredits when the guard fails.
	DebitIfSufficient(ctx context.Context, userID string, cost int64) (before, after int64, err error)

	// InsertTransaction appends one immutable ledger row.
	InsertTransaction(ctx context.Context, tx *model.Transaction) error

	// ListTransactions returns a user's ledger rows, newest first.
	ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error)

	Close() error
}
