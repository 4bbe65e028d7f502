package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/model"
)

// AccountDB implements repository.AccountDAO on sqlite.
type AccountDB struct {
	db *sql.DB
}

// NewAccountDB wraps an open sqlite handle.
func NewAccountDB(db *sql.DB) *AccountDB {
	return &AccountDB{db: db}
}

func (a *AccountDB) Close() error {
	return a.db.Close()
}

func (a *AccountDB) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := a.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = ?`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, errors.Wrapf(errors.ErrAccountNotFound, "%s", userID)
	}
	if err != nil {
		return 0, fmt.Errorf("query balance failed: %w", err)
	}
	return balance, nil
}

// DebitIfSufficient is the one write in this core that must be atomic across
// processes: the UPDATE only fires while the stored balance still covers the
// cost, so a concurrent debit on the same account cannot push it negative.
func (a *AccountDB) DebitIfSufficient(ctx context.Context, userID string, cost int64) (int64, int64, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin debit tx failed: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND balance >= ?`, cost, userID, cost)
	if err != nil {
		return 0, 0, fmt.Errorf("debit update failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("debit rows affected failed: %w", err)
	}
	if affected == 0 {
		return 0, 0, errors.ErrInsufficientCredits
	}

	var after int64
	if err := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = ?`, userID).Scan(&after); err != nil {
		return 0, 0, fmt.Errorf("read balance after debit failed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit debit failed: %w", err)
	}
	return after + cost, after, nil
}

func (a *AccountDB) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO ledger_transactions
		 (id, user_id, session_id, space_id, action, vendor, model,
		  input_tokens, output_tokens, cost, balance_before, balance_after, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
		 WHERE user_id = ?
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
