package notify

import "time"

// Resolve computes the set of channels eligible to carry a notification of
// the given category for one recipient at the given time.
//
// Each channel is evaluated independently with a fixed fallback chain:
//
//  1. The global channel toggle. When off the channel is ineligible and
//     nothing further is evaluated for it.
//  2. The explicit per-(category, channel) preference. Force-on or force-off
//     wins; inherit falls back to the category's declared default.
//  3. Quiet hours, only for channels that support them. A hit suppresses
//     the channel for this call only; a later call (for example a retry)
//     re-evaluates against the then-current time.
//
// An inactive category yields no eligible channels. An empty result is a
// valid, non-error outcome: the notification is recorded but delivered
// nowhere.
func Resolve(prefs RecipientPreferences, category Category, now time.Time) Set {
	eligible := make(Set)
	if !category.Active {
		return eligible
	}

	for _, ch := range AllChannels() {
		if !prefs.ChannelEnabled(ch) {
			continue
		}

		switch prefs.Override(category.ID, ch) {
		case PreferenceOff:
			continue
		case PreferenceOn:
			// Explicit opt-in wins over the category default.
		default:
			if !category.DefaultEnabled(ch) {
				continue
			}
		}

		if ch.SupportsQuietHours() {
			if q, ok := prefs.QuietHoursFor(ch); ok && q.Contains(now) {
				continue
			}
		}

		eligible.Add(ch)
	}
	return eligible
}
