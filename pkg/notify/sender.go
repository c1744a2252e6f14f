package notify

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// SendRequest carries the rendered content handed to a channel sender.
type SendRequest struct {
	NotificationID uuid.UUID
	Channel        Channel
	Recipient      string
	Title          string
	Body           string
}

// ChannelSender performs the actual transmission for one channel. A nil
// error means the transport accepted the message. Failures are classified
// with TransientError or PermanentError; an unclassified error is treated as
// transient so it remains retryable.
//
// Implementations must be safe for concurrent use across notifications.
type ChannelSender interface {
	Send(ctx context.Context, req SendRequest) error
}

// FuncSender adapts a plain function to the ChannelSender interface.
type FuncSender func(ctx context.Context, req SendRequest) error

func (f FuncSender) Send(ctx context.Context, req SendRequest) error {
	return f(ctx, req)
}

type classifiedError struct {
	err       error
	permanent bool
}

func (e *classifiedError) Error() string {
	return e.err.Error()
}

func (e *classifiedError) Unwrap() error {
	return e.err
}

// TransientError marks a send failure as retryable: network or timeout-class
// errors that may succeed on a later attempt.
func TransientError(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{err: err}
}

// PermanentError marks a send failure as non-retryable: an invalid recipient
// address, a misconfigured channel, a rejected payload.
func PermanentError(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{err: err, permanent: true}
}

// IsPermanent reports whether err was classified as non-retryable.
func IsPermanent(err error) bool {
	var ce *classifiedError
	return errors.As(err, &ce) && ce.permanent
}
