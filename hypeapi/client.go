// Package hypeapi contains a minimal client for the wager platform's affiliate
// creator stats endpoint, which reports per-user wager totals for a date range.
package hypeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultURL is the production creator stats endpoint.
const DefaultURL = "https://api.hype.bet/wallet/api/v1/affiliate/creator/get-stats"

// maxBodyLog bounds how much of a response body is copied into logs and errors.
const maxBodyLog = 4096

// Client posts stats queries authenticated by an affiliate API key.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// StatsRequest is the JSON body expected by the stats endpoint.
type StatsRequest struct {
	APIKey string `json:"apiKey"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stats request failed: %s: %s", e.Status, e.Body)
}

func (c *Client) http() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) url() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultURL
}

// GetStats fetches summarized bets for the inclusive calendar range [from, to],
// both formatted YYYY-MM-DD. It does not retry.
func (c *Client) GetStats(ctx context.Context, from, to string) (*Stats, error) {
	if c.APIKey == "" {
		return nil, errors.New("api key empty")
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("date range incomplete: from=%q to=%q", from, to)
	}
	body := StatsRequest{APIKey: c.APIKey, From: from, To: to}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode stats request: %w", err)
	}
	slog.Info("sending stats request",
		slog.String("component", "hypeapi"),
		slog.String("api_key", maskKey(c.APIKey)),
		slog.String("from", from),
		slog.String("to", to))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http().Do(req)
	if err != nil {
		return nil, fmt.Errorf("stats request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stats response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: truncate(string(raw))}
	}
	slog.Info("received stats response",
		slog.String("component", "hypeapi"),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(raw)),
		slog.String("body", truncate(string(raw))))

	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode stats response: %w", err)
	}
	return &stats, nil
}

// maskKey keeps the last four characters so operators can tell keys apart.
func maskKey(k string) string {
	if len(k) <= 4 {
		return "***"
	}
	return "***" + k[len(k)-4:]
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxBodyLog {
		return s[:maxBodyLog] + "...(truncated)"
	}
	return s
}
