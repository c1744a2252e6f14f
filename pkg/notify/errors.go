package notify

import "errors"

var (
	// ErrUnknownCategory is returned when a notification references a
	// category the catalog does not know.
	ErrUnknownCategory = errors.New("notify: unknown notification category")

	// ErrCategoryExists is returned when registering a duplicate category ID.
	ErrCategoryExists = errors.New("notify: category already registered")

	// ErrInvalidCategory is returned for malformed category definitions.
	ErrInvalidCategory = errors.New("notify: invalid category definition")

	// ErrInvalidDayTime is returned for unparsable quiet-hour boundaries.
	ErrInvalidDayTime = errors.New("notify: invalid day time")

	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notify: notification not found")

	// ErrNoAttempts indicates no delivery attempt has been recorded yet for
	// a notification/channel pair.
	ErrNoAttempts = errors.New("notify: no delivery attempts recorded")

	// ErrPreferenceUnavailable wraps preference store read failures. The
	// dispatch aborts before any send attempt and remains fully retryable.
	ErrPreferenceUnavailable = errors.New("notify: preference snapshot unavailable")

	// ErrLedgerWrite indicates a delivery attempt could not be recorded even
	// after retries. The affected channel is not advanced to a terminal
	// state without a confirmed ledger write.
	ErrLedgerWrite = errors.New("notify: ledger write failed")

	// ErrLedgerUnavailable wraps ledger read failures: prior attempts could
	// not be consulted, so neither idempotency nor status can be answered.
	ErrLedgerUnavailable = errors.New("notify: ledger read failed")

	// ErrNoSender indicates no sender is registered for an eligible channel.
	ErrNoSender = errors.New("notify: no sender registered for channel")

	// ErrLedgerNil is returned when constructing a dispatcher without a ledger.
	ErrLedgerNil = errors.New("notify: ledger is nil")

	// ErrStorageNil is returned when constructing a manager without storage.
	ErrStorageNil = errors.New("notify: storage is nil")

	// ErrDispatcherNil is returned when constructing a manager without a dispatcher.
	ErrDispatcherNil = errors.New("notify: dispatcher is nil")

	// ErrPreferenceStoreNil is returned when constructing a manager without
	// a preference store.
	ErrPreferenceStoreNil = errors.New("notify: preference store is nil")

	// ErrCatalogNil is returned when constructing a manager without a catalog.
	ErrCatalogNil = errors.New("notify: catalog is nil")
)
