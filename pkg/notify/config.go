package notify

import "time"

// DispatchConfig tunes the dispatcher's retry and bookkeeping behavior.
type DispatchConfig struct {
	// MaxRetries is the number of retries after the first attempt for
	// transient failures; a persistently failing channel therefore produces
	// MaxRetries+1 ledger attempts before converting to failed-permanent.
	MaxRetries int `env:"NOTIFY_MAX_RETRIES" envDefault:"3"`

	// BaseDelay is the backoff before the first retry; it doubles on each
	// subsequent retry up to MaxDelay.
	BaseDelay time.Duration `env:"NOTIFY_RETRY_BASE_DELAY" envDefault:"1s"`
	MaxDelay  time.Duration `env:"NOTIFY_RETRY_MAX_DELAY" envDefault:"30s"`

	// SendTimeout bounds a single sender invocation. Zero disables the
	// per-send timeout.
	SendTimeout time.Duration `env:"NOTIFY_SEND_TIMEOUT" envDefault:"15s"`

	// LedgerWriteRetries bounds re-attempts of a failed ledger write before
	// the dispatch surfaces an internal error.
	LedgerWriteRetries uint64        `env:"NOTIFY_LEDGER_WRITE_RETRIES" envDefault:"3"`
	LedgerWriteBackoff time.Duration `env:"NOTIFY_LEDGER_WRITE_BACKOFF" envDefault:"100ms"`
}

// DefaultDispatchConfig returns the configuration used when none is supplied.
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		MaxRetries:         3,
		BaseDelay:          time.Second,
		MaxDelay:           30 * time.Second,
		SendTimeout:        15 * time.Second,
		LedgerWriteRetries: 3,
		LedgerWriteBackoff: 100 * time.Millisecond,
	}
}

// sanitize clamps nonsensical values back to defaults.
func (c DispatchConfig) sanitize() DispatchConfig {
	def := DefaultDispatchConfig()
	if c.MaxRetries < 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = c.BaseDelay
	}
	if c.SendTimeout < 0 {
		c.SendTimeout = 0
	}
	if c.LedgerWriteBackoff <= 0 {
		c.LedgerWriteBackoff = def.LedgerWriteBackoff
	}
	return c
}
