package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/roomwarden/internal/model"
)

type fakeSender struct {
	requests []*resend.SendEmailRequest
	err      error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.requests = append(f.requests, params)
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func TestNewRequiresRecipients(t *testing.T) {
	_, err := NewWithSender(Config{}, &fakeSender{})
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = New(Config{To: []string{"staff@example.com"}})
	assert.Error(t, err)
}

func TestSendBuildsEmail(t *testing.T) {
	sender := &fakeSender{}
	sink, err := NewWithSender(Config{To: []string{"staff@example.com"}}, sender)
	require.NoError(t, err)

	err = sink.Send(context.Background(), model.Notification{
		Kind:        model.KindModeration,
		Title:       "👢 Player Kicked",
		Description: "<Bob> was removed",
		Timestamp:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Fields:      []model.NotificationField{{Name: "Reason", Value: "spam"}},
	})
	require.NoError(t, err)

	require.Len(t, sender.requests, 1)
	req := sender.requests[0]
	assert.Equal(t, "onboarding@resend.dev", req.From)
	assert.Equal(t, []string{"staff@example.com"}, req.To)
	assert.Equal(t, "[moderation] 👢 Player Kicked", req.Subject)
	assert.Contains(t, req.Html, "&lt;Bob&gt; was removed")
	assert.Contains(t, req.Html, "<li><b>Reason:</b> spam</li>")
	assert.Contains(t, req.Text, "Reason: spam")
}

func TestSendWrapsSenderError(t *testing.T) {
	boom := errors.New("quota exceeded")
	sink, err := NewWithSender(Config{To: []string{"a@example.com"}}, &fakeSender{err: boom})
	require.NoError(t, err)

	err = sink.Send(context.Background(), model.Notification{Title: "x"})
	assert.ErrorIs(t, err, boom)
}

func TestSendHonoursCancelledContext(t *testing.T) {
	sender := &fakeSender{}
	sink, err := NewWithSender(Config{To: []string{"a@example.com"}}, sender)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Send(ctx, model.Notification{Title: "x"}), context.Canceled)
	assert.Empty(t, sender.requests)
}
