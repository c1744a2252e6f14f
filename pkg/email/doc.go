// Package email provides transactional email sending behind the EmailSender
// interface, with a Postmark-backed production implementation and a
// file-writing DevSender for local development.
//
// Recipient-level provider rejections are wrapped in ErrRecipientRejected so
// callers can distinguish permanently failing addresses from transient
// transport errors.
package email
