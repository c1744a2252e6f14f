// Package notify implements preference-aware notification delivery across
// multiple channels (email, SMS, push, in-app) with a durable per-attempt
// delivery ledger.
//
// The package is built from four cooperating pieces:
//
//   - Resolve: pure preference resolution mapping a recipient's snapshot, a
//     category, and the current time to the set of eligible channels.
//   - Dispatcher: concurrent per-channel delivery through pluggable
//     ChannelSender implementations, with bounded exponential-backoff
//     retries for transient failures.
//   - Ledger: append-only audit trail of every delivery attempt and the
//     source of truth for idempotent re-dispatch.
//   - Manager: the caller-facing surface tying storage, preference
//     snapshots, the category catalog, and the dispatcher together.
//
// # Basic Usage
//
//	catalog, _ := notify.NewCatalog(notify.Category{
//	    ID:              "security",
//	    Label:           "Security",
//	    Priority:        notify.PriorityHigh,
//	    DefaultChannels: notify.NewSet(notify.ChannelEmail, notify.ChannelInApp),
//	    Active:          true,
//	})
//
//	ledger := notify.NewMemoryLedger()
//	dispatcher, _ := notify.NewDispatcher(ledger, map[notify.Channel]notify.ChannelSender{
//	    notify.ChannelEmail: emailSender,
//	    notify.ChannelInApp: inAppSender,
//	})
//
//	manager, _ := notify.NewManager(notify.NewMemoryStorage(), prefStore, catalog, dispatcher)
//
//	record, outcomes, err := manager.Notify(ctx, notify.Notification{
//	    UserID:   "user-123",
//	    Category: "security",
//	    Title:    "Password changed",
//	    Message:  "Your account password was changed.",
//	})
//
// # Preference Resolution
//
// Each channel is evaluated independently against a fixed fallback chain:
// global channel toggle, then the explicit per-(category, channel) tri-state
// preference, then the category's declared default. Email and SMS
// additionally honor per-user quiet-hour windows, including windows that
// wrap past midnight; a quiet-hour hit suppresses the channel for the
// current call only.
//
// # Failure Handling
//
// Senders classify failures with TransientError or PermanentError. Transient
// failures are retried with doubling backoff up to a configured bound, after
// which they convert to permanent. Every attempt, success or failure, is
// written to the ledger before the dispatcher moves on, and a channel never
// reaches a terminal state without a confirmed ledger write.
//
// # Asynchronous Dispatch
//
// Submit starts the dispatch in the background and returns a Handle:
//
//	handle, err := manager.Submit(ctx, notification)
//	if err != nil {
//	    // category unknown, storage failure, or preferences unavailable
//	}
//	outcomes, err := handle.Wait(ctx)
package notify
