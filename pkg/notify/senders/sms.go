package senders

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

// SMSGateway performs the actual SMS transmission. Implementations wrap a
// provider API or an internal messaging service; they must be safe for
// concurrent use.
//
// Gateways classify their own failures with notify.TransientError and
// notify.PermanentError; unclassified errors are treated as transient.
type SMSGateway interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// SMSSender adapts an SMSGateway to the notify.ChannelSender interface.
type SMSSender struct {
	gateway SMSGateway
}

// NewSMSSender wraps a gateway as the SMS channel sender.
func NewSMSSender(gateway SMSGateway) (*SMSSender, error) {
	if gateway == nil {
		return nil, ErrGatewayNil
	}
	return &SMSSender{gateway: gateway}, nil
}

// Send delivers the notification body as an SMS. A missing phone number is
// a permanent failure: retrying cannot conjure an address.
func (s *SMSSender) Send(ctx context.Context, req notify.SendRequest) error {
	if req.Recipient == "" {
		return notify.PermanentError(fmt.Errorf("%w: no phone number on file", ErrNoRecipient))
	}
	return s.gateway.SendSMS(ctx, req.Recipient, req.Body)
}

// LogSMSGateway is a development gateway that logs instead of sending.
type LogSMSGateway struct {
	logger *slog.Logger
}

// NewLogSMSGateway creates a gateway that records sends in the log.
func NewLogSMSGateway(logger *slog.Logger) *LogSMSGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSMSGateway{logger: logger}
}

func (g *LogSMSGateway) SendSMS(ctx context.Context, phone, message string) error {
	g.logger.LogAttrs(ctx, slog.LevelInfo, "sms (dev)",
		slog.String("phone", phone),
		slog.String("message", message),
	)
	return nil
}

// RecordingSMSGateway captures sent messages in memory, for tests and local
// inspection.
type RecordingSMSGateway struct {
	mu       sync.Mutex
	messages []RecordedSMS
}

// RecordedSMS is one captured message.
type RecordedSMS struct {
	Phone   string
	Message string
}

func (g *RecordingSMSGateway) SendSMS(ctx context.Context, phone, message string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages = append(g.messages, RecordedSMS{Phone: phone, Message: message})
	return nil
}

// Messages returns a copy of everything sent so far.
func (g *RecordingSMSGateway) Messages() []RecordedSMS {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]RecordedSMS, len(g.messages))
	copy(out, g.messages)
	return out
}
