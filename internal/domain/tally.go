package domain

import "strings"

// Tally is the parsed form of a per-meal feedback cell. Wire format:
//
//	up:alice,bob|down:carol
//
// An empty cell parses as an empty tally. Duplicate detection is by exact
// identity match across both directions, never by substring.
type Tally struct {
	Up   []string
	Down []string
}

// ParseTally decodes a feedback cell. Unknown segments are ignored so a
// hand-edited cell cannot break voting.
func ParseTally(s string) Tally {
	var t Tally
	for _, seg := range strings.Split(s, "|") {
		key, rest, ok := strings.Cut(seg, ":")
		if !ok {
			continue
		}
		var names []string
		for _, name := range strings.Split(rest, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		switch strings.TrimSpace(key) {
		case "up":
			t.Up = names
		case "down":
			t.Down = names
		}
	}
	return t
}

// String encodes the tally back into its cell form. An empty tally encodes
// as the empty string so untouched cells stay empty.
func (t Tally) String() string {
	if len(t.Up) == 0 && len(t.Down) == 0 {
		return ""
	}
	return "up:" + strings.Join(t.Up, ",") + "|down:" + strings.Join(t.Down, ",")
}

// Has reports whether the identity already voted in either direction.
func (t Tally) Has(name string) bool {
	for _, n := range t.Up {
		if n == name {
			return true
		}
	}
	for _, n := range t.Down {
		if n == name {
			return true
		}
	}
	return false
}

// Add appends the identity to the given direction.
func (t *Tally) Add(vote Vote, name string) {
	if vote == VoteDown {
		t.Down = append(t.Down, name)
		return
	}
	t.Up = append(t.Up, name)
}

// Count returns the number of votes in the given direction.
func (t Tally) Count(vote Vote) int {
	if vote == VoteDown {
		return len(t.Down)
	}
	return len(t.Up)
}
