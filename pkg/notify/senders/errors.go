package senders

import "errors"

var (
	ErrMailerNil   = errors.New("senders: mailer is nil")
	ErrGatewayNil  = errors.New("senders: gateway is nil")
	ErrFeedNil     = errors.New("senders: inbox feed is nil")
	ErrNoRecipient = errors.New("senders: no recipient address")
)
