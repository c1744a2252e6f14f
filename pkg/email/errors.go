package email

import "errors"

var (
	ErrFailedToSendEmail = errors.New("mailer.errors.failed_to_send_email")
	ErrInvalidConfig     = errors.New("mailer.errors.invalid_config")
	ErrInvalidParams     = errors.New("mailer.errors.invalid_params")

	// ErrRecipientRejected marks provider responses that will never succeed
	// for this recipient: malformed or inactive addresses. Callers can treat
	// it as a permanent delivery failure.
	ErrRecipientRejected = errors.New("mailer.errors.recipient_rejected")
)
