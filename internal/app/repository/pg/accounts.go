package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/model"
)

// Open opens the postgres accounts database. Table provisioning is owned by
// the accounts subsystem's migration scripts, not this core.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// AccountDB implements repository.AccountDAO on postgres.
type AccountDB struct {
	db *sql.DB
}

// NewAccountDB wraps an open postgres handle.
func NewAccountDB(db *sql.DB) *AccountDB {
	return &AccountDB{db: db}
}

func (a *AccountDB) Close() error {
	return a.db.Close()
}

func (a *AccountDB) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := a.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = $1`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, errors.Wrapf(errors.ErrAccountNotFound, "%s", userID)
	}
	if err != nil {
		return 0, fmt.Errorf("query balance failed: %w", err)
	}
	return balance, nil
}

// DebitIfSufficient performs the conditional debit in a single statement;
// RETURNING gives the post-debit balance without a second round trip.
func (a *AccountDB) DebitIfSufficient(ctx context.Context, userID string, cost int64) (int64, int64, error) {
	var after int64
	err := a.db.QueryRowContext(ctx,
		`UPDATE accounts SET balance = balance - $1, updated_at = NOW()
		 WHERE user_id = $2 AND balance >= $1
		 RETURNING balance`, cost, userID).Scan(&after)
	if err == sql.ErrNoRows {
		return 0, 0, errors.ErrInsufficientCredits
	}
	if err != nil {
		return 0, 0, fmt.Errorf("debit update failed: %w", err)
	}
	return after + cost, after, nil
}

func (a *AccountDB) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO ledger_transactions
		 (id, user_id, session_id, space_id, action, vendor, model,
		  input_tokens, output_tokens, cost, balance_before, balance_after, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.UserID, t.SessionID, t.SpaceID, string(t.Action), t.Vendor, t.Model,
		t.InputTokens, t.OutputTokens, t.Cost, t.BalanceBefore, t.BalanceAfter, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction failed: %w", err)
	}
	return nil
}

func (a *AccountDB) ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, user_id, session_id, space_id, action, vendor, model,
		        input_tokens, output_tokens, cost, balance_before, balance_after, created_at
		 FROM ledger_transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions failed: %w", err)
	}
	defer rows.Close()

	transactions := make([]model.Transaction, 0)
	for rows.Next() {
		var t model.Transaction
		var action string
		if err := rows.Scan(&t.ID, &t.UserID, &t.SessionID, &t.SpaceID, &action, &t.Vendor, &t.Model,
			&t.InputTokens, &t.OutputTokens, &t.Cost, &t.BalanceBefore, &t.BalanceAfter, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction failed: %w", err)
		}
		t.Action = model.LedgerAction(action)
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
