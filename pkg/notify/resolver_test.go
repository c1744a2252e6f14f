package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

func mustDayTime(t *testing.T, s string) notify.DayTime {
	t.Helper()
	dt, err := notify.ParseDayTime(s)
	require.NoError(t, err)
	return dt
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	claimCategory := notify.Category{
		ID:              "claim_update",
		Label:           "Claim updates",
		Priority:        notify.PriorityHigh,
		DefaultChannels: notify.NewSet(notify.ChannelEmail, notify.ChannelInApp),
		Active:          true,
	}

	allOn := func() notify.RecipientPreferences {
		return notify.RecipientPreferences{
			UserID: "member-1",
			Enabled: map[notify.Channel]bool{
				notify.ChannelEmail: true,
				notify.ChannelSMS:   true,
				notify.ChannelPush:  true,
				notify.ChannelInApp: true,
			},
		}
	}

	t.Run("category defaults apply without overrides", func(t *testing.T) {
		t.Parallel()

		eligible := notify.Resolve(allOn(), claimCategory, at(12, 0))
		assert.ElementsMatch(t,
			[]notify.Channel{notify.ChannelEmail, notify.ChannelInApp},
			eligible.Channels())
	})

	t.Run("disabled global toggle wins over force-on override", func(t *testing.T) {
		t.Parallel()

		prefs := allOn()
		prefs.Enabled[notify.ChannelEmail] = false
		prefs.Overrides = map[notify.PreferenceKey]notify.Preference{
			{Category: "claim_update", Channel: notify.ChannelEmail}: notify.PreferenceOn,
		}

		eligible := notify.Resolve(prefs, claimCategory, at(12, 0))
		assert.False(t, eligible.Has(notify.ChannelEmail))
	})

	t.Run("channel absent from toggles is disabled", func(t *testing.T) {
		t.Parallel()

		prefs := notify.RecipientPreferences{UserID: "member-1"}
		eligible := notify.Resolve(prefs, claimCategory, at(12, 0))
		assert.Zero(t, eligible.Len())
	})

	t.Run("force-off override beats category default", func(t *testing.T) {
		t.Parallel()

		prefs := allOn()
		prefs.Overrides = map[notify.PreferenceKey]notify.Preference{
			{Category: "claim_update", Channel: notify.ChannelEmail}: notify.PreferenceOff,
		}

		eligible := notify.Resolve(prefs, claimCategory, at(12, 0))
		assert.False(t, eligible.Has(notify.ChannelEmail))
		assert.True(t, eligible.Has(notify.ChannelInApp))
	})

	t.Run("force-on override enables a channel the category omits", func(t *testing.T) {
		t.Parallel()

		prefs := allOn()
		prefs.Overrides = map[notify.PreferenceKey]notify.Preference{
			{Category: "claim_update", Channel: notify.ChannelSMS}: notify.PreferenceOn,
		}

		eligible := notify.Resolve(prefs, claimCategory, at(12, 0))
		assert.True(t, eligible.Has(notify.ChannelSMS))
	})

	t.Run("inactive category yields no channels", func(t *testing.T) {
		t.Parallel()

		inactive := claimCategory
		inactive.Active = false

		eligible := notify.Resolve(allOn(), inactive, at(12, 0))
		assert.Zero(t, eligible.Len())
	})

	t.Run("quiet hours suppress email and sms only", func(t *testing.T) {
		t.Parallel()

		window := notify.QuietHours{
			Enabled: true,
			Start:   mustDayTime(t, "22:00"),
			End:     mustDayTime(t, "08:00"),
		}
		prefs := allOn()
		prefs.Overrides = map[notify.PreferenceKey]notify.Preference{
			{Category: "claim_update", Channel: notify.ChannelSMS}:  notify.PreferenceOn,
			{Category: "claim_update", Channel: notify.ChannelPush}: notify.PreferenceOn,
		}
		prefs.Quiet = map[notify.Channel]notify.QuietHours{
			notify.ChannelEmail: window,
			notify.ChannelSMS:   window,
			notify.ChannelPush:  window,
			notify.ChannelInApp: window,
		}

		eligible := notify.Resolve(prefs, claimCategory, at(23, 30))
		assert.False(t, eligible.Has(notify.ChannelEmail))
		assert.False(t, eligible.Has(notify.ChannelSMS))
		assert.True(t, eligible.Has(notify.ChannelPush), "push ignores quiet hours")
		assert.True(t, eligible.Has(notify.ChannelInApp), "in-app ignores quiet hours")
	})

	t.Run("quiet hours are re-evaluated per call", func(t *testing.T) {
		t.Parallel()

		prefs := allOn()
		prefs.Quiet = map[notify.Channel]notify.QuietHours{
			notify.ChannelEmail: {
				Enabled: true,
				Start:   mustDayTime(t, "22:00"),
				End:     mustDayTime(t, "08:00"),
			},
		}

		inside := notify.Resolve(prefs, claimCategory, at(2, 0))
		assert.False(t, inside.Has(notify.ChannelEmail))

		outside := notify.Resolve(prefs, claimCategory, at(12, 0))
		assert.True(t, outside.Has(notify.ChannelEmail))
	})

	t.Run("empty result is not an error state", func(t *testing.T) {
		t.Parallel()

		prefs := allOn()
		prefs.Overrides = map[notify.PreferenceKey]notify.Preference{
			{Category: "claim_update", Channel: notify.ChannelEmail}: notify.PreferenceOff,
			{Category: "claim_update", Channel: notify.ChannelInApp}: notify.PreferenceOff,
		}

		eligible := notify.Resolve(prefs, claimCategory, at(12, 0))
		assert.Zero(t, eligible.Len())
		assert.Empty(t, eligible.Channels())
	})
}

func TestQuietHoursContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		window notify.QuietHours
		at     time.Time
		want   bool
	}{
		{
			name:   "disabled window contains nothing",
			window: notify.QuietHours{Start: notify.DayTime{Hour: 0}, End: notify.DayTime{Hour: 23, Minute: 59}},
			at:     at(12, 0),
			want:   false,
		},
		{
			name:   "same-day window includes start",
			window: notify.QuietHours{Enabled: true, Start: notify.DayTime{Hour: 9}, End: notify.DayTime{Hour: 17}},
			at:     at(9, 0),
			want:   true,
		},
		{
			name:   "same-day window excludes end",
			window: notify.QuietHours{Enabled: true, Start: notify.DayTime{Hour: 9}, End: notify.DayTime{Hour: 17}},
			at:     at(17, 0),
			want:   false,
		},
		{
			name:   "midnight wrap includes late evening",
			window: notify.QuietHours{Enabled: true, Start: notify.DayTime{Hour: 22}, End: notify.DayTime{Hour: 8}},
			at:     at(23, 30),
			want:   true,
		},
		{
			name:   "midnight wrap includes early morning",
			window: notify.QuietHours{Enabled: true, Start: notify.DayTime{Hour: 22}, End: notify.DayTime{Hour: 8}},
			at:     at(2, 0),
			want:   true,
		},
		{
			name:   "midnight wrap excludes midday",
			window: notify.QuietHours{Enabled: true, Start: notify.DayTime{Hour: 22}, End: notify.DayTime{Hour: 8}},
			at:     at(12, 0),
			want:   false,
		},
		{
			name:   "midnight wrap excludes end boundary",
			window: notify.QuietHours{Enabled: true, Start: notify.DayTime{Hour: 22}, End: notify.DayTime{Hour: 8}},
			at:     at(8, 0),
			want:   false,
		},
		{
			name:   "equal boundaries contain nothing",
			window: notify.QuietHours{Enabled: true, Start: notify.DayTime{Hour: 6}, End: notify.DayTime{Hour: 6}},
			at:     at(6, 0),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.window.Contains(tt.at))
		})
	}
}

func TestParseDayTime(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		dt, err := notify.ParseDayTime("22:15")
		require.NoError(t, err)
		assert.Equal(t, notify.DayTime{Hour: 22, Minute: 15}, dt)
		assert.Equal(t, "22:15", dt.String())
		assert.Equal(t, 1335, dt.Minutes())
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"24:00", "12:60", "-1:30", "noon"} {
			_, err := notify.ParseDayTime(s)
			assert.ErrorIs(t, err, notify.ErrInvalidDayTime, s)
		}
	})
}
