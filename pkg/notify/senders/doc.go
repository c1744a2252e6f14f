// Package senders adapts concrete transports to the notify.ChannelSender
// interface, classifying each transport's failures as transient or
// permanent so the dispatcher can apply its retry policy.
//
// Email rides on pkg/email (Postmark in production, DevSender locally). SMS
// and push delegate to gateway collaborators behind small interfaces, since
// the transport mechanics of those channels live outside this module. The
// in-app sender publishes to the live inbox feed; the notification record
// itself is already persisted by the time any sender runs.
package senders
