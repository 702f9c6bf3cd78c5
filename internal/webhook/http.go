package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPSender POSTs payloads to the configured webhook URL. One call is one
// attempt; retry sits with the delivery worker.
type HTTPSender struct {
	url        string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewHTTPSender creates an HTTP-based sender.
func NewHTTPSender(url string, log zerolog.Logger) *HTTPSender {
	return &HTTPSender{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With().Str("component", "webhook-sender").Logger(),
	}
}

var _ Sender = (*HTTPSender)(nil)

// Deliver sends the payload once.
func (s *HTTPSender) Deliver(ctx context.Context, payload PhasePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
