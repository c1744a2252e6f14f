package notify

import "sort"

// Channel is a distinct delivery medium for notifications.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in_app"
)

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp:
		return true
	}
	return false
}

// SupportsQuietHours reports whether the channel honors per-user quiet-hour
// windows. Push and in-app notifications are delivered regardless of the
// time of day.
func (c Channel) SupportsQuietHours() bool {
	return c == ChannelEmail || c == ChannelSMS
}

// AllChannels returns every known channel in a stable order.
func AllChannels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp}
}

// Set is an unordered collection of channels. Callers must not assume any
// delivery precedence between members of a set.
type Set map[Channel]struct{}

// NewSet builds a set from the given channels.
func NewSet(channels ...Channel) Set {
	s := make(Set, len(channels))
	for _, c := range channels {
		s.Add(c)
	}
	return s
}

// Add inserts a channel into the set.
func (s Set) Add(c Channel) {
	s[c] = struct{}{}
}

// Has reports whether the set contains c.
func (s Set) Has(c Channel) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of channels in the set.
func (s Set) Len() int {
	return len(s)
}

// Channels returns the members of the set. The order is lexicographic and
// carries no delivery semantics.
func (s Set) Channels() []Channel {
	out := make([]Channel, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
