package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcwamsie/finsco-hub/pkg/logger"
)

// UnreadCache invalidates a derived unread-count cache. The cache is never
// authoritative; counts are always recomputable from storage.
type UnreadCache interface {
	Invalidate(ctx context.Context, userID string) error
}

// Manager is the caller-facing surface of the engine. It creates the
// notification record, resolves eligible channels from a preference
// snapshot, hands delivery to the dispatcher, and exposes the read/unread
// CRUD the surrounding application needs.
type Manager struct {
	storage    Storage
	prefs      PreferenceStore
	catalog    *Catalog
	dispatcher *Dispatcher
	clock      Clock
	unread     UnreadCache
	logger     *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger for the Manager.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerClock sets the clock used for record timestamps and quiet-hour
// resolution.
func WithManagerClock(clock Clock) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithUnreadCache registers a derived unread-count cache to invalidate on
// writes.
func WithUnreadCache(cache UnreadCache) ManagerOption {
	return func(m *Manager) {
		m.unread = cache
	}
}

// NewManager creates a notification manager.
func NewManager(storage Storage, prefs PreferenceStore, catalog *Catalog, dispatcher *Dispatcher, opts ...ManagerOption) (*Manager, error) {
	switch {
	case storage == nil:
		return nil, ErrStorageNil
	case prefs == nil:
		return nil, ErrPreferenceStoreNil
	case catalog == nil:
		return nil, ErrCatalogNil
	case dispatcher == nil:
		return nil, ErrDispatcherNil
	}

	m := &Manager{
		storage:    storage,
		prefs:      prefs,
		catalog:    catalog,
		dispatcher: dispatcher,
		clock:      SystemClock(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Notify creates the notification record and runs a full synchronous
// dispatch. It returns the stored record and the per-channel outcome map.
//
// A preference store failure aborts before any send attempt: the record
// stays not-attempted on every channel and the whole call is retryable
// later. Channel failures live in the outcome map, never in the error.
func (m *Manager) Notify(ctx context.Context, n Notification) (Notification, map[Channel]Outcome, error) {
	prepared, snapshot, eligible, err := m.prepare(ctx, n)
	if err != nil {
		return prepared, nil, err
	}
	outcomes, err := m.finish(ctx, &prepared, snapshot, eligible)
	return prepared, outcomes, err
}

// Submit creates the notification record and starts an asynchronous
// dispatch, returning a handle the caller can wait on. Preference
// resolution happens synchronously so a preference-unavailable failure is
// reported here, before any send attempt. Canceling ctx stops in-flight
// retries per the dispatcher's cancellation rules.
func (m *Manager) Submit(ctx context.Context, n Notification) (*Handle, error) {
	prepared, snapshot, eligible, err := m.prepare(ctx, n)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		NotificationID: prepared.ID,
		done:           make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		record := prepared
		h.outcomes, h.err = m.finish(ctx, &record, snapshot, eligible)
	}()
	return h, nil
}

// BulkResult is the outcome of one recipient's delivery within NotifyAll.
type BulkResult struct {
	UserID       string
	Notification Notification
	Outcomes     map[Channel]Outcome
	Err          error
}

// NotifyAll delivers one notification to many recipients: announcements to
// every member, targeted alerts to a selected set. Each recipient gets an
// independent record, preference resolution, and dispatch, so one user's
// disabled channels or failing addresses never affect another's delivery.
//
// Per-recipient failures are captured in the result slice, not returned as
// an error; the only error NotifyAll itself returns is context
// cancellation, alongside the results completed so far.
func (m *Manager) NotifyAll(ctx context.Context, userIDs []string, n Notification) ([]BulkResult, error) {
	results := make([]BulkResult, 0, len(userIDs))
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		recipient := n
		recipient.ID = uuid.Nil
		recipient.UserID = userID
		recipient.Delivery = nil

		record, outcomes, err := m.Notify(ctx, recipient)
		if err != nil {
			m.logger.LogAttrs(ctx, slog.LevelWarn, "bulk delivery failed for recipient",
				logger.UserID(userID),
				logger.Error(err),
			)
		}
		results = append(results, BulkResult{
			UserID:       userID,
			Notification: record,
			Outcomes:     outcomes,
			Err:          err,
		})
	}
	return results, nil
}

// Status reports the latest recorded outcome per channel for a notification.
func (m *Manager) Status(ctx context.Context, notificationID uuid.UUID) (map[Channel]Outcome, error) {
	return m.dispatcher.Status(ctx, notificationID)
}

// History returns the full chronological attempt trail for a notification.
func (m *Manager) History(ctx context.Context, notificationID uuid.UUID) ([]DeliveryAttempt, error) {
	return m.dispatcher.ledger.History(ctx, notificationID)
}

// prepare validates the category, persists the record, and resolves the
// eligible channel set from a fresh preference snapshot. The snapshot is not
// re-read for the remainder of the dispatch.
func (m *Manager) prepare(ctx context.Context, n Notification) (Notification, RecipientPreferences, Set, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.clock.Now()
	}

	category, err := m.catalog.Get(n.Category)
	if err != nil {
		return n, RecipientPreferences{}, nil, err
	}

	if err := m.storage.Create(ctx, n); err != nil {
		return n, RecipientPreferences{}, nil, err
	}
	m.invalidateUnread(ctx, n.UserID)

	snapshot, err := m.prefs.Snapshot(ctx, n.UserID)
	if err != nil {
		return n, RecipientPreferences{}, nil, errors.Join(ErrPreferenceUnavailable, err)
	}

	eligible := Resolve(snapshot, category, m.clock.Now())
	return n, snapshot, eligible, nil
}

// finish runs the dispatch and folds the summary back into storage.
func (m *Manager) finish(ctx context.Context, n *Notification, snapshot RecipientPreferences, eligible Set) (map[Channel]Outcome, error) {
	outcomes, dispatchErr := m.dispatcher.Dispatch(ctx, n, eligible, snapshot.Addresses)

	if len(n.Delivery) > 0 {
		if err := m.storage.UpdateDelivery(ctx, n.ID, n.Delivery); err != nil {
			// The ledger already holds the truth; the summary is a derived
			// projection and can be rebuilt, so log and move on.
			m.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist delivery summary",
				slog.String("notification_id", n.ID.String()),
				logger.Error(err),
			)
		}
	}
	return outcomes, dispatchErr
}

// Get retrieves a single notification owned by the user.
func (m *Manager) Get(ctx context.Context, userID string, id uuid.UUID) (*Notification, error) {
	return m.storage.Get(ctx, userID, id)
}

// List returns notifications for a user, newest first.
func (m *Manager) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	return m.storage.List(ctx, userID, opts)
}

// MarkRead marks notification(s) as read.
func (m *Manager) MarkRead(ctx context.Context, userID string, ids ...uuid.UUID) error {
	if err := m.storage.MarkRead(ctx, userID, ids...); err != nil {
		return err
	}
	m.invalidateUnread(ctx, userID)
	return nil
}

// MarkAllRead marks every unread notification as read for a user.
func (m *Manager) MarkAllRead(ctx context.Context, userID string) error {
	unread, err := m.storage.List(ctx, userID, ListOptions{OnlyUnread: true})
	if err != nil {
		return err
	}
	if len(unread) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(unread))
	for i, n := range unread {
		ids[i] = n.ID
	}
	return m.MarkRead(ctx, userID, ids...)
}

// Delete removes notification(s).
func (m *Manager) Delete(ctx context.Context, userID string, ids ...uuid.UUID) error {
	if err := m.storage.Delete(ctx, userID, ids...); err != nil {
		return err
	}
	m.invalidateUnread(ctx, userID)
	return nil
}

// CountUnread recomputes the unread count from the stored records.
func (m *Manager) CountUnread(ctx context.Context, userID string) (int, error) {
	return m.storage.CountUnread(ctx, userID)
}

func (m *Manager) invalidateUnread(ctx context.Context, userID string) {
	if m.unread == nil {
		return
	}
	if err := m.unread.Invalidate(ctx, userID); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "failed to invalidate unread cache",
			logger.UserID(userID),
			logger.Error(err),
		)
	}
}

// Handle tracks an asynchronous dispatch started by Submit. The outcome map
// is complete only once every eligible channel has reached a terminal state.
type Handle struct {
	NotificationID uuid.UUID

	done     chan struct{}
	outcomes map[Channel]Outcome
	err      error
}

// Done is closed when the dispatch has fully completed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the dispatch completes or ctx is done, then returns the
// per-channel outcome map.
func (h *Handle) Wait(ctx context.Context) (map[Channel]Outcome, error) {
	select {
	case <-h.done:
		return h.outcomes, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// WaitTimeout is like Wait with a deadline.
func (h *Handle) WaitTimeout(timeout time.Duration) (map[Channel]Outcome, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return h.Wait(ctx)
}
