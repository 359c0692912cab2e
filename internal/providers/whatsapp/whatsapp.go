// Package whatsapp sends outbound invoice notifications through a
// WhatsApp gateway. Delivery is best-effort; callers log and continue.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rashidrk201111/mansoorbhai-billing/internal/config"
	"go.uber.org/zap"
)

// Provider sends a text message to a phone number.
type Provider interface {
	Send(ctx context.Context, phone, body string) error
}

type client struct {
	apiURL string
	token  string
	http   *http.Client
	log    *zap.Logger
}

type noop struct{}

func (noop) Send(ctx context.Context, phone, body string) error { return nil }

// New returns the HTTP provider when a gateway is configured, otherwise
// a no-op so workflows never depend on the gateway being present.
func New(cfg config.Config, log *zap.Logger) Provider {
	if cfg.WhatsAppAPIURL == "" {
		log.Named("whatsapp").Info("gateway not configured, notifications disabled")
		return noop{}
	}
	return &client{
		apiURL: cfg.WhatsAppAPIURL,
		token:  cfg.WhatsAppToken,
		http:   &http.Client{Timeout: 10 * time.Second},
		log:    log.Named("whatsapp"),
	}
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (c *client) Send(ctx context.Context, phone, body string) error {
	payload, err := json.Marshal(sendRequest{To: phone, Body: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("whatsapp gateway returned %d", resp.StatusCode)
	}

	c.log.Debug("message sent", zap.String("to", phone))
	return nil
}
