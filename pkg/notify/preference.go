package notify

import (
	"context"
	"fmt"
	"time"
)

// Preference is a tri-state per-category, per-channel setting. The zero
// value inherits the category's declared default.
type Preference string

const (
	PreferenceInherit Preference = ""
	PreferenceOn      Preference = "on"
	PreferenceOff     Preference = "off"
)

// DayTime is a clock time without a date, used for quiet-hour boundaries.
type DayTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseDayTime parses "HH:MM" into a DayTime.
func ParseDayTime(s string) (DayTime, error) {
	var dt DayTime
	if _, err := fmt.Sscanf(s, "%d:%d", &dt.Hour, &dt.Minute); err != nil {
		return DayTime{}, fmt.Errorf("%w: %q", ErrInvalidDayTime, s)
	}
	if dt.Hour < 0 || dt.Hour > 23 || dt.Minute < 0 || dt.Minute > 59 {
		return DayTime{}, fmt.Errorf("%w: %q", ErrInvalidDayTime, s)
	}
	return dt, nil
}

// Minutes returns the offset from midnight in minutes.
func (d DayTime) Minutes() int {
	return d.Hour*60 + d.Minute
}

func (d DayTime) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

// QuietHours is a per-channel suppression window in the recipient's local
// time. A window whose start is after its end wraps past midnight.
type QuietHours struct {
	Enabled bool    `json:"enabled"`
	Start   DayTime `json:"start"`
	End     DayTime `json:"end"`
}

// Contains reports whether t falls within the half-open window [Start, End).
// A disabled window contains nothing.
func (q QuietHours) Contains(t time.Time) bool {
	if !q.Enabled {
		return false
	}
	now := t.Hour()*60 + t.Minute()
	start, end := q.Start.Minutes(), q.End.Minutes()
	if start == end {
		return false
	}
	if start < end {
		return now >= start && now < end
	}
	// Wraps midnight: the window spans two days.
	return now >= start || now < end
}

// PreferenceKey addresses a single tri-state preference entry.
type PreferenceKey struct {
	Category string
	Channel  Channel
}

// RecipientPreferences is a point-in-time snapshot of one user's
// notification settings. The engine reads a snapshot per resolution call and
// never mutates it; the owning store applies edits between dispatches.
type RecipientPreferences struct {
	UserID string

	// Enabled holds the global per-channel toggles. A channel absent from
	// the map is treated as disabled.
	Enabled map[Channel]bool

	// Overrides holds explicit per-(category, channel) settings. A missing
	// entry inherits the category's declared default for that channel.
	Overrides map[PreferenceKey]Preference

	// Quiet holds per-channel quiet-hour windows. Only consulted for
	// channels that support quiet hours.
	Quiet map[Channel]QuietHours

	// Addresses maps each channel to the recipient address used by its
	// sender (email address, phone number, device token, user ID).
	Addresses map[Channel]string
}

// ChannelEnabled reports the global toggle for the channel.
func (p RecipientPreferences) ChannelEnabled(ch Channel) bool {
	return p.Enabled[ch]
}

// Override returns the tri-state preference for the category/channel pair.
func (p RecipientPreferences) Override(category string, ch Channel) Preference {
	return p.Overrides[PreferenceKey{Category: category, Channel: ch}]
}

// QuietHoursFor returns the quiet-hour window configured for the channel.
func (p RecipientPreferences) QuietHoursFor(ch Channel) (QuietHours, bool) {
	q, ok := p.Quiet[ch]
	return q, ok
}

// Address returns the recipient address for the channel, if known.
func (p RecipientPreferences) Address(ch Channel) string {
	return p.Addresses[ch]
}

// PreferenceStore supplies recipient preference snapshots. Implementations
// must return an internally consistent snapshot: a read must never observe a
// partially applied preference update.
type PreferenceStore interface {
	Snapshot(ctx context.Context, userID string) (RecipientPreferences, error)
}
