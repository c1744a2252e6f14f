package senders

import (
	"context"
	"errors"

	"github.com/mcwamsie/finsco-hub/pkg/email"
	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

// EmailSender adapts an email.EmailSender to the notify.ChannelSender
// interface.
type EmailSender struct {
	mailer email.EmailSender
	tag    string
}

// EmailOption configures an EmailSender.
type EmailOption func(*EmailSender)

// WithEmailTag sets the provider-side tag attached to outbound messages.
func WithEmailTag(tag string) EmailOption {
	return func(s *EmailSender) {
		s.tag = tag
	}
}

// NewEmailSender wraps a mailer as the email channel sender.
func NewEmailSender(mailer email.EmailSender, opts ...EmailOption) (*EmailSender, error) {
	if mailer == nil {
		return nil, ErrMailerNil
	}
	s := &EmailSender{mailer: mailer, tag: "notification"}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send delivers the notification as a transactional email. Parameter
// validation failures and provider-side recipient rejections are permanent;
// everything else stays retryable.
func (s *EmailSender) Send(ctx context.Context, req notify.SendRequest) error {
	err := s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   req.Recipient,
		Subject:  req.Title,
		BodyHTML: req.Body,
		Tag:      s.tag,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, email.ErrInvalidParams), errors.Is(err, email.ErrRecipientRejected):
		return notify.PermanentError(err)
	default:
		return notify.TransientError(err)
	}
}
