package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

// PreferenceStore is the PostgreSQL implementation of notify.PreferenceStore.
//
// Per-channel settings (global toggle, delivery address, quiet hours) live in
// channel_settings, one row per (user, channel). Per-category tri-state
// overrides live in preference_overrides. A channel with no channel_settings
// row is disabled for that user.
type PreferenceStore struct {
	pool *pgxpool.Pool
}

// NewPreferenceStore creates a preference store over the shared pool.
func NewPreferenceStore(pool *pgxpool.Pool) *PreferenceStore {
	return &PreferenceStore{pool: pool}
}

// Snapshot reads the user's settings inside a single repeatable-read
// transaction so a preference edit spanning both tables is observed either
// fully applied or not at all.
func (p *PreferenceStore) Snapshot(ctx context.Context, userID string) (notify.RecipientPreferences, error) {
	prefs := notify.RecipientPreferences{
		UserID:    userID,
		Enabled:   make(map[notify.Channel]bool),
		Overrides: make(map[notify.PreferenceKey]notify.Preference),
		Quiet:     make(map[notify.Channel]notify.QuietHours),
		Addresses: make(map[notify.Channel]string),
	}

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return notify.RecipientPreferences{}, err
	}
	defer tx.Rollback(ctx)

	if err := readChannelSettings(ctx, tx, userID, &prefs); err != nil {
		return notify.RecipientPreferences{}, err
	}
	if err := readOverrides(ctx, tx, userID, &prefs); err != nil {
		return notify.RecipientPreferences{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return notify.RecipientPreferences{}, err
	}
	return prefs, nil
}

func readChannelSettings(ctx context.Context, tx pgx.Tx, userID string, prefs *notify.RecipientPreferences) error {
	rows, err := tx.Query(ctx, `
		SELECT channel, enabled, address, quiet_enabled, quiet_start, quiet_end
		FROM channel_settings
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			channel              notify.Channel
			enabled, quietOn     bool
			address              string
			quietStart, quietEnd int16
		)
		if err := rows.Scan(&channel, &enabled, &address, &quietOn, &quietStart, &quietEnd); err != nil {
			return err
		}
		prefs.Enabled[channel] = enabled
		if address != "" {
			prefs.Addresses[channel] = address
		}
		if quietOn {
			prefs.Quiet[channel] = notify.QuietHours{
				Enabled: true,
				Start:   minutesToDayTime(int(quietStart)),
				End:     minutesToDayTime(int(quietEnd)),
			}
		}
	}
	return rows.Err()
}

func readOverrides(ctx context.Context, tx pgx.Tx, userID string, prefs *notify.RecipientPreferences) error {
	rows, err := tx.Query(ctx, `
		SELECT category, channel, preference
		FROM preference_overrides
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			category string
			channel  notify.Channel
			pref     notify.Preference
		)
		if err := rows.Scan(&category, &channel, &pref); err != nil {
			return err
		}
		prefs.Overrides[notify.PreferenceKey{Category: category, Channel: channel}] = pref
	}
	return rows.Err()
}

// SetChannel upserts the per-channel settings row for a user.
func (p *PreferenceStore) SetChannel(ctx context.Context, userID string, channel notify.Channel, enabled bool, address string, quiet notify.QuietHours) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO channel_settings (user_id, channel, enabled, address, quiet_enabled, quiet_start, quiet_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, channel) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			address = EXCLUDED.address,
			quiet_enabled = EXCLUDED.quiet_enabled,
			quiet_start = EXCLUDED.quiet_start,
			quiet_end = EXCLUDED.quiet_end,
			updated_at = NOW()
	`, userID, channel, enabled, address, quiet.Enabled, quiet.Start.Minutes(), quiet.End.Minutes())
	return err
}

// SetOverride upserts a tri-state category override. An inherit preference
// deletes the row instead, restoring the category default.
func (p *PreferenceStore) SetOverride(ctx context.Context, userID, category string, channel notify.Channel, pref notify.Preference) error {
	if pref == notify.PreferenceInherit {
		_, err := p.pool.Exec(ctx, `
			DELETE FROM preference_overrides
			WHERE user_id = $1 AND category = $2 AND channel = $3
		`, userID, category, channel)
		return err
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO preference_overrides (user_id, category, channel, preference)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category, channel) DO UPDATE SET
			preference = EXCLUDED.preference,
			updated_at = NOW()
	`, userID, category, channel, pref)
	return err
}

func minutesToDayTime(m int) notify.DayTime {
	return notify.DayTime{Hour: m / 60, Minute: m % 60}
}
