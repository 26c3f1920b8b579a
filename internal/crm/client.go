// Package crm delivers qualified leads to an external CRM with bounded
// retries. Delivery is synchronous and at-least-once; the caller records the
// outcome on the stored lead.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"estate_assistant_backend/internal/leads/domain"
	"estate_assistant_backend/platform/logger"
)

// SyncStatus is the terminal outcome of one Sync call.
type SyncStatus string

const (
	// StatusOK means the CRM accepted the lead.
	StatusOK SyncStatus = "ok"
	// StatusFailed means every attempt failed.
	StatusFailed SyncStatus = "failed"
	// StatusSkipped means no CRM endpoint is configured. Not an error.
	StatusSkipped SyncStatus = "skipped"
)

// Result reports how a Sync call ended.
type Result struct {
	Status   SyncStatus
	Attempts int
	Err      error
}

// RetryPolicy is the bounded retry schedule, kept as plain data so it can be
// exercised in tests without real sleeps.
type RetryPolicy struct {
	MaxAttempts int
	// Delay returns the wait before the attempt following attempt n.
	Delay func(attempt int) time.Duration
}

// DefaultRetryPolicy retries up to 3 total attempts with linear backoff:
// 1s after the first failure, 2s after the second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
	}
}

// Config for the CRM endpoint.
type Config struct {
	SyncURL string
	APIKey  string
	Timeout time.Duration
}

// Client synchronizes lead records to the CRM.
type Client struct {
	config Config
	policy RetryPolicy
	http   *http.Client
	log    *logger.Logger
}

// NewClient creates a CRM client. An empty SyncURL yields a client whose
// Sync short-circuits with a skipped outcome.
func NewClient(cfg Config, policy RetryPolicy, log *logger.Logger) *Client {
	return &Client{
		config: cfg,
		policy: policy,
		http:   &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// payload is the fixed external shape delivered per lead.
type payload struct {
	Source              string   `json:"source"`
	ExternalID          string   `json:"externalId"`
	FullName            string   `json:"fullName"`
	Phone               string   `json:"phone"`
	Budget              *string  `json:"budget"`
	PreferredLocation   *string  `json:"preferredLocation"`
	PropertyType        *string  `json:"propertyType"`
	Timeline            *string  `json:"timeline"`
	Score               int      `json:"score"`
	ConversationSummary string   `json:"conversationSummary"`
	Metadata            metadata `json:"metadata"`
}

type metadata struct {
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sync delivers the record, retrying per the policy. A request timeout
// counts as a failed attempt. Exhausting the budget reports the final
// failure; it is never swallowed.
func (c *Client) Sync(ctx context.Context, record domain.Record) Result {
	if c.config.SyncURL == "" {
		c.log.Info("crm sync skipped: no endpoint configured", "lead_id", record.ID)
		return Result{Status: StatusSkipped}
	}

	body, err := json.Marshal(buildPayload(record))
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("marshal crm payload: %w", err)}
	}

	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		lastErr = c.deliver(ctx, body)
		if lastErr == nil {
			c.log.Info("crm sync successful", "lead_id", record.ID, "attempt", attempt)
			return Result{Status: StatusOK, Attempts: attempt}
		}

		c.log.Warn("crm sync attempt failed",
			"lead_id", record.ID, "attempt", attempt, "error", lastErr)

		if attempt == c.policy.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Result{Status: StatusFailed, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(c.policy.Delay(attempt)):
		}
	}

	return Result{Status: StatusFailed, Attempts: c.policy.MaxAttempts, Err: lastErr}
}

func (c *Client) deliver(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.SyncURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("crm returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return nil
}

func buildPayload(record domain.Record) payload {
	fullName := "WhatsApp Prospect"
	if record.Details.Name != nil && *record.Details.Name != "" {
		fullName = *record.Details.Name
	}

	return payload{
		Source:              "WhatsApp",
		ExternalID:          record.ID,
		FullName:            fullName,
		Phone:               record.Phone,
		Budget:              record.Details.Budget,
		PreferredLocation:   record.Details.Location,
		PropertyType:        record.Details.Type,
		Timeline:            record.Details.Timeline,
		Score:               record.Score,
		ConversationSummary: record.Summary,
		Metadata: metadata{
			Status:    string(record.Status),
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		},
	}
}
