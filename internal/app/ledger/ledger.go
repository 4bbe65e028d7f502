package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/model"
	"spaceworks/internal/app/repository"
)

// Ledger prices metered operations and debits them against prepaid credit
// balances. Every attempt, successful or not, emits one structured audit
// line; a transaction row is written only when the debit (or a deliberate
// no-debit accounting pass) actually happened.
type Ledger struct {
	accounts repository.AccountDAO
	audit    *slog.Logger
}

// New builds a Ledger over the given accounts DAO. audit may be nil, in
// which case the default slog logger is used.
func New(accounts repository.AccountDAO, audit *slog.Logger) *Ledger {
	if audit == nil {
		audit = slog.Default()
	}
	return &Ledger{accounts: accounts, audit: audit}
}

// TrackRequest describes one priced operation attempt.
type TrackRequest struct {
	Actor        model.Actor
	SpaceID      string
	Action       model.LedgerAction
	Vendor       string
	Model        string
	InputTokens  int64
	OutputTokens int64
	// Debit false performs the accounting pass without touching the
	// balance; the transaction still records the computed cost.
	Debit bool
}

// TrackCost prices the operation, debits the actor's balance and records the
// transaction. It returns the computed cost even on failure so callers can
// report what the operation would have charged.
func (l *Ledger) TrackCost(ctx context.Context, req TrackRequest) (int64, error) {
	cost := CalculateCost(req.Vendor, req.Model, req.InputTokens, req.OutputTokens)

	if req.Actor.Anonymous() {
		l.logAttempt(req, cost, "rejected", errors.ErrAnonymousActor)
		return cost, errors.ErrAnonymousActor
	}

	before, err := l.accounts.GetBalance(ctx, req.Actor.UserID)
	if err != nil {
		l.logAttempt(req, cost, "failed", err)
		return cost, err
	}

	after := before
	if req.Debit {
		if before < cost {
			l.logAttempt(req, cost, "insufficient", errors.ErrInsufficientCredits)
			return cost, errors.ErrInsufficientCredits
		}
		// The stored balance may have moved since the read above; the
		// conditional update is the real guard.
		before, after, err = l.accounts.DebitIfSufficient(ctx, req.Actor.UserID, cost)
		if err != nil {
			l.logAttempt(req, cost, "failed", err)
			return cost, err
		}
	}

	tx := &model.Transaction{
		ID:            uuid.New().String(),
		UserID:        req.Actor.UserID,
		SessionID:     req.Actor.SessionID,
		SpaceID:       req.SpaceID,
		Action:        req.Action,
		Vendor:        req.Vendor,
		Model:         req.Model,
		InputTokens:   req.InputTokens,
		OutputTokens:  req.OutputTokens,
		Cost:          cost,
		BalanceBefore: before,
		BalanceAfter:  after,
		CreatedAt:     time.Now().UTC(),
	}
	if err := l.accounts.InsertTransaction(ctx, tx); err != nil {
		// The debit already happened; the audit line keeps the attempt
		// observable even though the row is missing. The sentinel lets
		// callers tell this apart from a rejected debit.
		l.logAttempt(req, cost, "transaction_write_failed", err)
		return cost, errors.Wrapf(errors.ErrTransactionNotRecorded, "%v", err)
	}

	l.logAttempt(req, cost, "charged", nil)
	return cost, nil
}

func (l *Ledger) logAttempt(req TrackRequest, cost int64, outcome string, err error) {
	attrs := []interface{}{
		"outcome", outcome,
		"user_id", req.Actor.UserID,
		"session_id", req.Actor.SessionID,
		"space_id", req.SpaceID,
		"action", string(req.Action),
		"vendor", req.Vendor,
		"model", req.Model,
		"input_tokens", req.InputTokens,
		"output_tokens", req.OutputTokens,
		"cost", cost,
		"debit", req.Debit,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
		l.audit.Warn("cost tracking attempt", attrs...)
		return
	}
	l.audit.Info("cost tracking attempt", attrs...)
}
