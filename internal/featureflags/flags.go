// Package featureflags holds the runtime switches operators flip without a
// deploy. Every flag is a boolean with a registered default.
package featureflags

import (
	"errors"
	"sort"
	"time"
)

// Flag keys.
const (
	// FlagSkipRepeatedStatusEffects makes the application workflow apply a
	// status side effect at most once per (application, status) pair.
	FlagSkipRepeatedStatusEffects = "skip_repeated_status_effects"

	// FlagDisableFeedPosting rejects new ground report posts.
	FlagDisableFeedPosting = "disable_feed_posting"

	// FlagDisableEventPublishing stops domain events from leaving the process.
	FlagDisableEventPublishing = "disable_event_publishing"
)

// ErrUnknownFlag is returned when a key has no definition.
var ErrUnknownFlag = errors.New("unknown feature flag")

// Definition describes a flag and its value when nothing is stored.
type Definition struct {
	Key         string
	Description string
	Default     bool
}

var definitions = map[string]Definition{
	FlagSkipRepeatedStatusEffects: {
		Key:         FlagSkipRepeatedStatusEffects,
		Description: "Apply a status side effect only on the first entry into that status",
	},
	FlagDisableFeedPosting: {
		Key:         FlagDisableFeedPosting,
		Description: "Reject new ground report posts",
	},
	FlagDisableEventPublishing: {
		Key:         FlagDisableEventPublishing,
		Description: "Stop publishing domain events",
	},
}

// Lookup returns the definition for key.
func Lookup(key string) (Definition, bool) {
	d, ok := definitions[key]
	return d, ok
}

// Definitions returns every known flag ordered by key.
func Definitions() []Definition {
	out := make([]Definition, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Flag is the effective state of one switch. UpdatedAt is zero for a flag
// that was never stored.
type Flag struct {
	Key       string
	Enabled   bool
	UpdatedAt time.Time
}

// Defaults returns every flag at its default value.
func Defaults() []Flag {
	defs := Definitions()
	out := make([]Flag, len(defs))
	for i, d := range defs {
		out[i] = Flag{Key: d.Key, Enabled: d.Default}
	}
	return out
}
