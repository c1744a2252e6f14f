package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/mcwamsie/finsco-hub/pkg/logger"
)

// Dispatcher fans a notification out to its eligible channels, applies the
// retry policy within each channel, and records every attempt in the ledger.
//
// Channels are independent: a failure on one never blocks or rolls back
// attempts on another. Within a channel, retries are sequential and wait out
// their backoff; across channels, sends run concurrently. Dispatch returns
// only once every channel has reached a terminal state, been interrupted by
// cancellation, or failed at the bookkeeping level.
type Dispatcher struct {
	senders map[Channel]ChannelSender
	ledger  Ledger
	clock   Clock
	cfg     DispatchConfig
	logger  *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for the Dispatcher.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock sets the clock used for backoff waits.
func WithClock(clock Clock) DispatcherOption {
	return func(d *Dispatcher) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithDispatchConfig overrides the default retry configuration.
func WithDispatchConfig(cfg DispatchConfig) DispatcherOption {
	return func(d *Dispatcher) {
		d.cfg = cfg.sanitize()
	}
}

// NewDispatcher creates a dispatcher over the given ledger and per-channel
// senders. An eligible channel without a registered sender is treated as a
// channel misconfiguration and recorded as a permanent failure.
func NewDispatcher(ledger Ledger, senders map[Channel]ChannelSender, opts ...DispatcherOption) (*Dispatcher, error) {
	if ledger == nil {
		return nil, ErrLedgerNil
	}

	d := &Dispatcher{
		senders: make(map[Channel]ChannelSender, len(senders)),
		ledger:  ledger,
		clock:   SystemClock(),
		cfg:     DefaultDispatchConfig(),
		logger:  slog.Default(),
	}
	for ch, s := range senders {
		if s != nil {
			d.senders[ch] = s
		}
	}

	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch attempts delivery on every eligible channel and returns the
// per-channel outcome map. An empty eligible set is a valid, non-error
// terminal outcome and yields an empty map.
//
// Channel-level failures never surface as errors; they are captured in the
// outcome map. A non-nil error reports a system-level failure (the ledger
// unreachable) distinct from any channel outcome; channels affected by it
// are absent from the map.
// Recipient addresses are taken from the preference snapshot resolved for
// this dispatch, keyed by channel.
func (d *Dispatcher) Dispatch(ctx context.Context, n *Notification, eligible Set, addresses map[Channel]string) (map[Channel]Outcome, error) {
	outcomes := make(map[Channel]Outcome, eligible.Len())
	if eligible.Len() == 0 {
		return outcomes, nil
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sysErrs []error
	)

	for _, ch := range eligible.Channels() {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()

			outcome, status, err := d.dispatchChannel(ctx, n, ch, addresses[ch])

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sysErrs = append(sysErrs, fmt.Errorf("%s: %w", ch, err))
				return
			}
			outcomes[ch] = outcome
			n.setDelivery(ch, status)
		}(ch)
	}
	wg.Wait()

	return outcomes, errors.Join(sysErrs...)
}

// dispatchChannel drives one channel to a terminal state. It returns the
// channel outcome and the derived summary status, or an error when the
// ledger could not confirm the bookkeeping.
func (d *Dispatcher) dispatchChannel(ctx context.Context, n *Notification, ch Channel, recipient string) (Outcome, DeliveryStatus, error) {
	// Idempotent re-dispatch: a pair that already reached a terminal state
	// returns the cached outcome instead of re-sending.
	latest, err := d.ledger.LatestOutcome(ctx, n.ID, ch)
	switch {
	case err == nil:
		if latest.Terminal() {
			return latest.Outcome, summaryFor(latest.Outcome), nil
		}
	case errors.Is(err, ErrNoAttempts):
	default:
		return "", "", errors.Join(ErrLedgerUnavailable, err)
	}

	sender, ok := d.senders[ch]
	if !ok {
		attempt := DeliveryAttempt{
			NotificationID: n.ID,
			Channel:        ch,
			Attempt:        latest.Attempt + 1,
			Outcome:        OutcomeFailed,
			Final:          true,
			Error:          ErrNoSender.Error(),
			CreatedAt:      d.clock.Now(),
		}
		if err := d.recordAttempt(ctx, attempt); err != nil {
			return "", "", err
		}
		return OutcomeFailed, DeliveryFailed, nil
	}

	req := SendRequest{
		NotificationID: n.ID,
		Channel:        ch,
		Recipient:      recipient,
		Title:          n.Title,
		Body:           n.Message,
	}

	attemptNo := latest.Attempt
	for {
		attemptNo++

		sendErr := d.send(ctx, sender, req)
		attempt := DeliveryAttempt{
			NotificationID: n.ID,
			Channel:        ch,
			Attempt:        attemptNo,
			CreatedAt:      d.clock.Now(),
		}

		switch {
		case sendErr == nil:
			attempt.Outcome = OutcomeSent
			if err := d.recordAttempt(ctx, attempt); err != nil {
				return "", "", err
			}
			return OutcomeSent, DeliverySent, nil

		case IsPermanent(sendErr):
			attempt.Outcome = OutcomeFailed
			attempt.Final = true
			attempt.Error = sendErr.Error()
			if err := d.recordAttempt(ctx, attempt); err != nil {
				return "", "", err
			}
			d.logger.LogAttrs(ctx, slog.LevelWarn, "permanent delivery failure",
				slog.String("notification_id", n.ID.String()),
				slog.String("channel", string(ch)),
				logger.Error(sendErr),
			)
			return OutcomeFailed, DeliveryFailed, nil

		default:
			// Cancellation must not fabricate a terminal entry: an attempt
			// interrupted in flight stays a transient failure.
			interrupted := ctx.Err() != nil
			exhausted := !interrupted && attemptNo >= d.cfg.MaxRetries+1

			attempt.Outcome = OutcomeFailed
			attempt.Final = exhausted
			attempt.Error = sendErr.Error()
			if err := d.recordAttempt(ctx, attempt); err != nil {
				return "", "", err
			}

			if exhausted {
				d.logger.LogAttrs(ctx, slog.LevelWarn, "retry budget exhausted",
					slog.String("notification_id", n.ID.String()),
					slog.String("channel", string(ch)),
					slog.Int("attempts", attemptNo),
					logger.Error(sendErr),
				)
				return OutcomeFailed, DeliveryFailed, nil
			}
			if interrupted {
				return OutcomeFailed, DeliveryFailed, nil
			}

			if err := d.clock.Sleep(ctx, d.backoff(attemptNo)); err != nil {
				// Canceled during backoff: stop issuing new retries. The
				// transient attempt above is already on record.
				return OutcomeFailed, DeliveryFailed, nil
			}
		}
	}
}

// Status reports the latest ledger outcome per channel for a notification.
// Channels with no recorded attempts are absent from the map.
func (d *Dispatcher) Status(ctx context.Context, notificationID uuid.UUID) (map[Channel]Outcome, error) {
	out := make(map[Channel]Outcome)
	for _, ch := range AllChannels() {
		latest, err := d.ledger.LatestOutcome(ctx, notificationID, ch)
		switch {
		case errors.Is(err, ErrNoAttempts):
			continue
		case err != nil:
			return nil, errors.Join(ErrLedgerUnavailable, err)
		}
		out[ch] = latest.Outcome
	}
	return out, nil
}

// send invokes the sender with the configured per-send timeout.
func (d *Dispatcher) send(ctx context.Context, sender ChannelSender, req SendRequest) error {
	if d.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
	}
	return sender.Send(ctx, req)
}

// backoff returns the wait before the next retry: the base delay doubles
// with each completed attempt, capped at MaxDelay.
func (d *Dispatcher) backoff(completedAttempts int) time.Duration {
	delay := d.cfg.BaseDelay
	for i := 1; i < completedAttempts; i++ {
		delay *= 2
		if delay >= d.cfg.MaxDelay {
			return d.cfg.MaxDelay
		}
	}
	if delay > d.cfg.MaxDelay {
		return d.cfg.MaxDelay
	}
	return delay
}

// recordAttempt writes one ledger row, retrying bounded on failure. The
// channel must not advance to a terminal state without a confirmed write, so
// exhausting these retries surfaces ErrLedgerWrite to the caller.
//
// Writes are detached from the caller's cancellation: an attempt that
// already ran deserves its row even when the dispatch is being torn down.
func (d *Dispatcher) recordAttempt(ctx context.Context, attempt DeliveryAttempt) error {
	writeCtx := context.WithoutCancel(ctx)
	backoff := retry.WithMaxRetries(d.cfg.LedgerWriteRetries, retry.NewExponential(d.cfg.LedgerWriteBackoff))

	err := retry.Do(writeCtx, backoff, func(ctx context.Context) error {
		if _, err := d.ledger.Record(ctx, attempt); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelError, "ledger write failed",
			slog.String("notification_id", attempt.NotificationID.String()),
			slog.String("channel", string(attempt.Channel)),
			slog.Int("attempt", attempt.Attempt),
			logger.Error(err),
		)
		return errors.Join(ErrLedgerWrite, err)
	}
	return nil
}

// summaryFor projects a ledger outcome onto the notification summary.
func summaryFor(o Outcome) DeliveryStatus {
	switch o {
	case OutcomeSent, OutcomeDelivered:
		return DeliverySent
	case OutcomeFailed:
		return DeliveryFailed
	}
	return DeliveryNotAttempted
}
