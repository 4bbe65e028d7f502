package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/model"
)

// fakeAccountDAO is an in-memory AccountDAO.
type fakeAccountDAO struct {
	balances     map[string]int64
	transactions []model.Transaction

	debitErr  error
	insertErr error
}

func newFakeAccountDAO(balances map[string]int64) *fakeAccountDAO {
	return &fakeAccountDAO{balances: balances}
}

func (f *fakeAccountDAO) GetBalance(_ context.Context, userID string) (int64, error) {
	balance, ok := f.balances[userID]
	if !ok {
		return 0, errors.Wrapf(errors.ErrAccountNotFound, "%s", userID)
	}
	return balance, nil
}

func (f *fakeAccountDAO) DebitIfSufficient(_ context.Context, userID string, cost int64) (int64, int64, error) {
	if f.debitErr != nil {
		return 0, 0, f.debitErr
	}
	before := f.balances[userID]
	if before < cost {
		return 0, 0, errors.ErrInsufficientCredits
	}
	f.balances[userID] = before - cost
	return before, before - cost, nil
}

func (f *fakeAccountDAO) InsertTransaction(_ context.Context, tx *model.Transaction) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.transactions = append(f.transactions, *tx)
	return nil
}

func (f *fakeAccountDAO) ListTransactions(_ context.Context, userID string) ([]model.Transaction, error) {
	var out []model.Transaction
	for i := len(f.transactions) - 1; i >= 0; i-- {
		if f.transactions[i].UserID == userID {
			out = append(out, f.transactions[i])
		}
	}
	return out, nil
}

func (f *fakeAccountDAO) Close() error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestTrackCostChargesAndRecords: the happy path debits the balance and
// writes one transaction with consistent before/after values.
func TestTrackCostChargesAndRecords(t *testing.T) {
	dao := newFakeAccountDAO(map[string]int64{"user-1": 100})
	l := New(dao, quietLogger())

	cost, err := l.TrackCost(context.Background(), TrackRequest{
		Actor:       model.Actor{UserID: "user-1", SessionID: "sess-1"},
		SpaceID:     "space-1",
		Action:      model.ActionTranscription,
		Vendor:      "openai",
		Model:       "whisper-1",
		InputTokens: 1_000_000,
		Debit:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), cost)
	assert.Equal(t, int64(94), dao.balances["user-1"])

	require.Len(t, dao.transactions, 1)
	tx := dao.transactions[0]
	assert.Equal(t, "user-1", tx.UserID)
	assert.Equal(t, "space-1", tx.SpaceID)
	assert.Equal(t, model.ActionTranscription, tx.Action)
	assert.Equal(t, int64(6), tx.Cost)
	assert.Equal(t, int64(100), tx.BalanceBefore)
	assert.Equal(t, int64(94), tx.BalanceAfter)
	assert.Equal(t, tx.BalanceBefore-tx.Cost, tx.BalanceAfter)
	assert.NotEmpty(t, tx.ID)
}

// TestTrackCostAnonymousRejected: anonymous actors are rejected before any
// account lookup, with no transaction written.
func TestTrackCostAnonymousRejected(t *testing.T) {
	dao := newFakeAccountDAO(map[string]int64{})
	l := New(dao, quietLogger())

	cost, err := l.TrackCost(context.Background(), TrackRequest{
		Actor:  model.Actor{SessionID: "sess-1"},
		Action: model.ActionTranslation,
		Vendor: "openai",
		Model:  "gpt-4o-mini",
		Debit:  true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAnonymousActor)
	assert.Equal(t, int64(1), cost) // cost is still computed and reported
	assert.Empty(t, dao.transactions)
}

// TestTrackCostInsufficientCredits: a balance below cost rejects the debit
// and leaves both the balance and the ledger untouched.
func TestTrackCostInsufficientCredits(t *testing.T) {
	dao := newFakeAccountDAO(map[string]int64{"user-1": 3})
	l := New(dao, quietLogger())

	_, err := l.TrackCost(context.Background(), TrackRequest{
		Actor:       model.Actor{UserID: "user-1"},
		Action:      model.ActionTranscription,
		Vendor:      "openai",
		Model:       "whisper-1",
		InputTokens: 1_000_000, // costs 6
		Debit:       true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInsufficientCredits)
	assert.Equal(t, int64(3), dao.balances["user-1"])
	assert.Empty(t, dao.transactions)
}

// TestTrackCostNoDebit: Debit false records the accounting pass without
// touching the balance.
func TestTrackCostNoDebit(t *testing.T) {
	dao := newFakeAccountDAO(map[string]int64{"user-1": 10})
	l := New(dao, quietLogger())

	cost, err := l.TrackCost(context.Background(), TrackRequest{
		Actor:       model.Actor{UserID: "user-1"},
		Action:      model.ActionSummary,
		Vendor:      "openai",
		Model:       "gpt-4o",
		InputTokens: 1_000_000,
		Debit:       false,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), cost)
	assert.Equal(t, int64(10), dao.balances["user-1"])

	require.Len(t, dao.transactions, 1)
	tx := dao.transactions[0]
	assert.Equal(t, int64(10), tx.BalanceBefore)
	assert.Equal(t, int64(10), tx.BalanceAfter)
	assert.Equal(t, int64(3), tx.Cost)
}

// TestTrackCostUnknownAccount surfaces the DAO error.
func TestTrackCostUnknownAccount(t *testing.T) {
	dao := newFakeAccountDAO(map[string]int64{})
	l := New(dao, quietLogger())

	_, err := l.TrackCost(context.Background(), TrackRequest{
		Actor:  model.Actor{UserID: "ghost"},
		Action: model.ActionTranscription,
		Vendor: "openai",
		Model:  "whisper-1",
		Debit:  true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

// TestTrackCostTransactionWriteFailure: the debit stands even when the row
// write fails; the error is surfaced so the caller can report it.
func TestTrackCostTransactionWriteFailure(t *testing.T) {
	dao := newFakeAccountDAO(map[string]int64{"user-1": 100})
	dao.insertErr = errors.New("disk full")
	l := New(dao, quietLogger())

	_, err := l.TrackCost(context.Background(), TrackRequest{
		Actor:       model.Actor{UserID: "user-1"},
		Action:      model.ActionTranscription,
		Vendor:      "openai",
		Model:       "whisper-1",
		InputTokens: 1_000_000,
		Debit:       true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransactionNotRecorded)
	assert.Equal(t, int64(94), dao.balances["user-1"])
}
