package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"spaceworks/internal/app/model"
)

// Dispatcher is told about every terminal job state. Delivery is
// best-effort; the worker logs failures and moves on.
type Dispatcher interface {
	Notify(ctx context.Context, actorID string, kind model.JobKind, spaceID, summary string) error
}

// Event is the wire payload a webhook receiver gets.
type Event struct {
	Event     string    `json:"event"`
	ActorID   string    `json:"actor_id,omitempty"`
	JobKind   string    `json:"job_kind"`
	SpaceID   string    `json:"space_id"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDispatcher returns a webhook dispatcher when a URL is configured and a
// log-only fallback otherwise.
func NewDispatcher(webhookURL, secret string) Dispatcher {
	if webhookURL == "" {
		return logDispatcher{}
	}
	return &WebhookDispatcher{
		url:    webhookURL,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type logDispatcher struct{}

func (logDispatcher) Notify(_ context.Context, actorID string, kind model.JobKind, spaceID, summary string) error {
	log.Printf("job notification: actor=%s kind=%s space=%s %s\n", actorID, kind, spaceID, summary)
	return nil
}

// WebhookDispatcher POSTs terminal-state events to a configured URL, signing
// the body with HMAC-SHA256 when a secret is set.
type WebhookDispatcher struct {
	url    string
	secret string
	client *http.Client
}

func (w *WebhookDispatcher) Notify(ctx context.Context, actorID string, kind model.JobKind, spaceID, summary string) error {
	event := Event{
		Event:     "job_finished",
		ActorID:   actorID,
		JobKind:   string(kind),
		SpaceID:   spaceID,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		mac := hmac.New(sha256.New, []byte(w.secret))
		mac.Write(body)
		req.Header.Set("X-Spaceworks-Signature", hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %s", resp.Status)
	}
	return nil
}
