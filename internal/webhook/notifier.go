package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/unessa/fundraiser-api/internal/logger"
)

// Registration is the payload delivered to the CRM when a fundraiser signs up.
type Registration struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// RetryPolicy bounds delivery attempts. Attempt n (1-based) waits
// n * Backoff before running; the first attempt runs immediately.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// delay returns the wait before the given 1-based attempt.
func (p RetryPolicy) delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	return time.Duration(attempt-1) * p.Backoff
}

// Notifier posts registration events to a CRM webhook with bounded retries.
// A zero URL disables delivery. The HTTP client is shared process-wide.
type Notifier struct {
	url    string
	policy RetryPolicy
	http   *http.Client
	log    *logger.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(url string, policy RetryPolicy, httpClient *http.Client, log *logger.Logger) *Notifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &Notifier{
		url:    url,
		policy: policy,
		http:   httpClient,
		log:    log.WithComponent("crm_webhook"),
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Notify delivers the registration event, retrying per the policy. It blocks
// until delivery succeeds, attempts are exhausted, or ctx ends; callers run
// it on its own goroutine when registration latency matters.
func (n *Notifier) Notify(ctx context.Context, reg Registration) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("webhook: failed to encode payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= n.policy.MaxAttempts; attempt++ {
		if wait := n.policy.delay(attempt); wait > 0 {
			n.log.Info().
				Int("attempt", attempt).
				Dur("wait", wait).
				Msg("retrying CRM webhook")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = n.post(ctx, body)
		if lastErr == nil {
			n.log.Info().Int("attempt", attempt).Str("email", reg.Email).Msg("CRM webhook delivered")
			return nil
		}
		n.log.Warn().Err(lastErr).Int("attempt", attempt).Msg("CRM webhook attempt failed")
	}

	n.log.Error().Err(lastErr).
		Int("attempts", n.policy.MaxAttempts).
		Str("email", reg.Email).
		Msg("CRM webhook failed after all attempts")
	return fmt.Errorf("webhook: delivery failed after %d attempts: %w", n.policy.MaxAttempts, lastErr)
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
