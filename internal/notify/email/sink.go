// Package email sends selected notifications to staff by e-mail through Resend.
package email

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
)

// ErrNoRecipients is returned when no recipient addresses are configured
var ErrNoRecipients = errors.New("email sink has no recipients")

// Sender is the subset of the Resend e-mail API used by the sink
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Config holds e-mail settings
type Config struct {
	APIKey string
	From   string
	To     []string
}

// Sink e-mails notifications
type Sink struct {
	cfg    Config
	sender Sender
}

// Ensure Sink implements notify.Sink
var _ notify.Sink = (*Sink)(nil)

// New creates a Sink backed by the Resend API
func New(cfg Config) (*Sink, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("email sink requires an api key")
	}
	client := resend.NewClient(cfg.APIKey)
	return NewWithSender(cfg, client.Emails)
}

// NewWithSender creates a Sink with an existing sender (for testing)
func NewWithSender(cfg Config, sender Sender) (*Sink, error) {
	if len(cfg.To) == 0 {
		return nil, ErrNoRecipients
	}
	if cfg.From == "" {
		cfg.From = "onboarding@resend.dev"
	}
	return &Sink{cfg: cfg, sender: sender}, nil
}

// Name returns "email"
func (s *Sink) Name() string { return "email" }

// Send e-mails n to every configured recipient
func (s *Sink) Send(ctx context.Context, n model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &resend.SendEmailRequest{
		From:    s.cfg.From,
		To:      s.cfg.To,
		Subject: fmt.Sprintf("[%s] %s", n.Kind, n.Title),
		Html:    render(n),
		Text:    renderText(n),
	}
	if _, err := s.sender.Send(params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func render(n model.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(n.Title))
	if n.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(n.Description))
	}
	if len(n.Fields) > 0 {
		b.WriteString("<ul>")
		for _, f := range n.Fields {
			fmt.Fprintf(&b, "<li><b>%s:</b> %s</li>", html.EscapeString(f.Name), html.EscapeString(f.Value))
		}
		b.WriteString("</ul>")
	}
	fmt.Fprintf(&b, "<p><small>%s</small></p>", n.Timestamp.UTC().Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

func renderText(n model.Notification) string {
	var b strings.Builder
	b.WriteString(n.Title)
	b.WriteString("\n")
	if n.Description != "" {
		b.WriteString(n.Description)
		b.WriteString("\n")
	}
	for _, f := range n.Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Value)
	}
	return b.String()
}
