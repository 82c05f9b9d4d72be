package grabber

import "strings"

// ChannelMatcher matches a guide channel name against the set of desired
// channels. Names are compared case-insensitively, ignoring surrounding
// whitespace and a trailing "HD" token, so a standard-definition and a
// high-definition variant sharing a base name count as the same channel.
type ChannelMatcher struct {
	known map[string]string
}

// NewChannelMatcher builds a matcher from the desired channel names. When two
// names normalize to the same form, the last one wins.
func NewChannelMatcher(channels []string) *ChannelMatcher {
	known := make(map[string]string, len(channels))
	for _, channel := range channels {
		known[normalizeChannelName(channel)] = channel
	}
	return &ChannelMatcher{known: known}
}

// IsKnown reports whether the given name matches a desired channel.
func (m *ChannelMatcher) IsKnown(channel string) bool {
	_, ok := m.known[normalizeChannelName(channel)]
	return ok
}

// normalizeChannelName lowercases, trims and strips an exact trailing " hd"
// token. The suffix match is a whole token: "Ziggo Sport HD2" keeps its name.
func normalizeChannelName(channel string) string {
	name := strings.TrimSpace(strings.ToLower(channel))
	if strings.HasSuffix(name, " hd") {
		name = strings.TrimSpace(strings.TrimSuffix(name, " hd"))
	}
	return name
}
