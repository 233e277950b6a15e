package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var _ Sender = (*WebhookClient)(nil)

// webhookRequest is the JSON body posted to the mail provider.
type webhookRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// webhookResponse is what the provider answers on success.
type webhookResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

// WebhookClient sends email through an HTTP mail provider endpoint.
type WebhookClient struct {
	endpoint   string
	authKey    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewWebhookClient creates a new WebhookClient with the given endpoint and auth key.
func NewWebhookClient(endpoint, authKey string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookClient{
		endpoint: endpoint,
		authKey:  authKey,
		timeout:  timeout,
		httpClient: &http.Client{
			Timeout: timeout + time.Second,
		},
	}
}

// Send implements Sender.Send by posting a JSON payload to the configured endpoint.
func (c *WebhookClient) Send(ctx context.Context, msg Message) error {
	// Keep individual requests bounded in time.
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	payload := webhookRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Body,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return deliveryErr(msg.To, fmt.Errorf("failed to marshal webhook payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return deliveryErr(msg.To, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authKey != "" {
		req.Header.Set("X-Api-Key", c.authKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return deliveryErr(msg.To, fmt.Errorf("webhook request timeout or canceled: %w", err))
		}
		return deliveryErr(msg.To, fmt.Errorf("webhook request failed: %w", err))
	}
	defer resp.Body.Close()

	rawBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return deliveryErr(msg.To, fmt.Errorf("failed to read webhook response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return deliveryErr(msg.To, fmt.Errorf("webhook returned non-2xx status: %d", resp.StatusCode))
	}

	var parsed webhookResponse
	if err := json.Unmarshal(rawBytes, &parsed); err != nil {
		return deliveryErr(msg.To, fmt.Errorf("failed to parse webhook response: %w", err))
	}
	if parsed.MessageID == "" {
		return deliveryErr(msg.To, errors.New("webhook response missing messageId"))
	}

	return nil
}

// Health implements Sender.Health with a simple GET request to the endpoint.
func (c *WebhookClient) Health(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("health: failed to create request: %w", err)
	}

	if c.authKey != "" {
		req.Header.Set("X-Api-Key", c.authKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health: non-2xx status: %d", resp.StatusCode)
	}

	return nil
}
