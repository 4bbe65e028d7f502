package model

import "time"

// LedgerAction names the kind of metered work a transaction paid for.
type LedgerAction string

const (
	ActionTranscription     LedgerAction = "transcription"
	ActionTranslation       LedgerAction = "translation"
	ActionSummary           LedgerAction = "summary"
	ActionLanguageDetection LedgerAction = "language_detection"
	ActionTagGeneration     LedgerAction = "tag_generation"
	ActionTextGeneration    LedgerAction = "text_generation"
	ActionVideoRender       LedgerAction = "video_render"
)

// Actor identifies who asked for a priced operation. Anonymous actors carry
// only a session id and can never be charged.
type Actor struct {
	UserID    string
	SessionID string
}

// Anonymous reports whether the actor lacks an account to debit.
func (a Actor) Anonymous() bool {
	return a.UserID == ""
}

// Transaction is one immutable ledger row. BalanceBefore and BalanceAfter
// always satisfy BalanceAfter == BalanceBefore - Cost when a debit happened.
type Transaction struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	SessionID     string       `json:"session_id,omitempty"`
	SpaceID       string       `json:"space_id"`
	Action        LedgerAction `json:"action"`
	Vendor        string       `json:"vendor"`
	Model         string       `json:"model"`
	InputTokens   int64        `json:"input_tokens"`
	OutputTokens  int64        `json:"output_tokens"`
	Cost          int64        `json:"cost"`
	BalanceBefore int64        `json:"balance_before"`
	BalanceAfter  int64        `json:"balance_after"`
	CreatedAt     time.Time    `json:"created_at"`
}
