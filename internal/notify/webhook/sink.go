// Package webhook posts notifications to a Discord channel webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
)

// ErrInvalidURL is returned for webhook URLs that do not point at Discord
var ErrInvalidURL = errors.New("webhook url is not a discord webhook")

// Config holds webhook settings
type Config struct {
	URL      string
	Username string
	Footer   string
	Timeout  time.Duration
}

// DefaultConfig returns the default presentation settings
func DefaultConfig() Config {
	return Config{
		Username: "RHL Tournament Bot",
		Footer:   "🎮 RHL Tournament Bot",
		Timeout:  10 * time.Second,
	}
}

// Sink delivers notifications as Discord embeds
type Sink struct {
	cfg    Config
	client *http.Client
}

// Ensure Sink implements notify.Sink
var _ notify.Sink = (*Sink)(nil)

// New validates cfg and creates a Sink
func New(cfg Config) (*Sink, error) {
	if !strings.Contains(cfg.URL, "discord.com") {
		return nil, ErrInvalidURL
	}
	return NewWithClient(cfg, &http.Client{Timeout: cfg.Timeout}), nil
}

// NewWithClient creates a Sink with an existing HTTP client and no URL checks (for testing)
func NewWithClient(cfg Config, client *http.Client) *Sink {
	def := DefaultConfig()
	if cfg.Username == "" {
		cfg.Username = def.Username
	}
	if cfg.Footer == "" {
		cfg.Footer = def.Footer
	}
	return &Sink{cfg: cfg, client: client}
}

// Name returns "webhook"
func (s *Sink) Name() string { return "webhook" }

type payload struct {
	Username string  `json:"username"`
	Embeds   []embed `json:"embeds"`
}

type embed struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description,omitempty"`
	Color       int                       `json:"color"`
	Timestamp   string                    `json:"timestamp"`
	Fields      []model.NotificationField `json:"fields,omitempty"`
	Footer      footer                    `json:"footer"`
}

type footer struct {
	Text string `json:"text"`
}

// Send posts n. Client errors other than 429 are not retried.
func (s *Sink) Send(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(payload{
		Username: s.cfg.Username,
		Embeds: []embed{{
			Title:       n.Title,
			Description: n.Description,
			Color:       n.Color,
			Timestamp:   n.Timestamp.UTC().Format(time.RFC3339),
			Fields:      n.Fields,
			Footer:      footer{Text: s.cfg.Footer},
		}},
	})
	if err != nil {
		return backoff.Permanent(fmt.Errorf("encode webhook payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build webhook request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			return backoff.RetryAfter(secs)
		}
		return fmt.Errorf("webhook rate limited: %s", resp.Status)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return backoff.Permanent(fmt.Errorf("webhook rejected: %s", resp.Status))
	default:
		return fmt.Errorf("webhook failed: %s", resp.Status)
	}
}
