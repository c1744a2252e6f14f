package senders

import (
	"context"
	"fmt"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

// PushGateway delivers push payloads to a device token. Implementations
// wrap FCM/APNs or an internal push relay and classify their failures with
// notify.TransientError and notify.PermanentError.
type PushGateway interface {
	SendPush(ctx context.Context, deviceToken string, payload PushPayload) error
}

// PushPayload is the rendered push message.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PushSender adapts a PushGateway to the notify.ChannelSender interface.
type PushSender struct {
	gateway PushGateway
}

// NewPushSender wraps a gateway as the push channel sender.
func NewPushSender(gateway PushGateway) (*PushSender, error) {
	if gateway == nil {
		return nil, ErrGatewayNil
	}
	return &PushSender{gateway: gateway}, nil
}

// Send delivers the notification as a push message. A user with no
// registered device token fails permanently for this dispatch; registering
// a device later makes future notifications deliverable.
func (s *PushSender) Send(ctx context.Context, req notify.SendRequest) error {
	if req.Recipient == "" {
		return notify.PermanentError(fmt.Errorf("%w: no device token registered", ErrNoRecipient))
	}
	return s.gateway.SendPush(ctx, req.Recipient, PushPayload{
		Title: req.Title,
		Body:  req.Body,
	})
}
