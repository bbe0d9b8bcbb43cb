package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/config"
)

// GatewayNotifier delivers messages through an external SMS gateway
// over HTTP. It is the production implementation of domain.Notifier;
// delivery failures are reported to the caller, which logs and drops
// them.
type GatewayNotifier struct {
	url        string
	apiKey     string
	sender     string
	httpClient *http.Client
}

func NewGatewayNotifier(cfg config.NotifierConfig) *GatewayNotifier {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GatewayNotifier{
		url:    cfg.GatewayURL,
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type gatewayMessage struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Body string `json:"body"`
}

func (n *GatewayNotifier) SendMessage(ctx context.Context, recipientContact, body string) error {
	payload, err := json.Marshal(gatewayMessage{From: n.sender, To: recipientContact, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// NopNotifier swallows messages; used when the notifier is disabled.
type NopNotifier struct{}

func (NopNotifier) SendMessage(ctx context.Context, recipientContact, body string) error {
	return nil
}
