package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"chatflow/internal/common"
	"chatflow/internal/config"
)

// pushRequest is the provider wire format: one call per user, fanned out to
// all of the user's active device tokens provider-side.
type pushRequest struct {
	Tokens []string          `json:"tokens"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

type PushGateway struct {
	endpoint string
	apiKey   string
	devices  DeviceRepository
	client   *http.Client
}

// NewPushGateway returns the HTTP-backed gateway, or a log-only stand-in
// when the provider is not configured. Callers never need to care which.
func NewPushGateway(cnf config.GatewayConfig, devices DeviceRepository) common.NotificationGateway {
	if !cnf.Enabled || cnf.Endpoint == "" {
		log.Println("push gateway disabled, notifications will be logged only")
		return &logGateway{}
	}
	return &PushGateway{
		endpoint: cnf.Endpoint,
		apiKey:   cnf.APIKey,
		devices:  devices,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *PushGateway) Push(ctx context.Context, userID, title, body string, data map[string]string) error {
	tokens, err := g.devices.ActiveTokens(ctx, userID)
	if err != nil {
		return &common.DownstreamError{Target: "device-store", Err: err}
	}
	if len(tokens) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushRequest{
		Tokens: tokens,
		Title:  title,
		Body:   body,
		Data:   data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &common.DownstreamError{Target: "push-provider", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &common.DownstreamError{
			Target: "push-provider",
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return nil
}

// logGateway stands in when no provider is configured, so development
// environments see pushes in the log instead of losing them silently.
type logGateway struct{}

func (logGateway) Push(ctx context.Context, userID, title, body string, data map[string]string) error {
	log.Printf("push (dry-run) to %s: %s / %s", userID, title, body)
	return nil
}
