package store

import (
	"encoding/json"
	"slices"

	"github.com/flaggly/flaggly/engine"
)

// FlagUpdate is a partial flag mutation: every field is optional and, if
// present, shallowly overwrites the existing flag's field. ID and Kind
// are immutable and therefore not updatable.
type FlagUpdate struct {
	Enabled *bool `json:"enabled,omitempty"`
	// Segments replaces the flag's segment list; an explicit empty list
	// clears all targeting.
	Segments []string        `json:"segments,omitempty"`
	Rollout  engine.Rollout  `json:"rollout,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Default  *engine.Value   `json:"default,omitempty"`
}

// IsZero reports whether the update changes nothing.
func (u FlagUpdate) IsZero() bool {
	return u.Enabled == nil && u.Segments == nil && u.Rollout == nil &&
		u.Payload == nil && u.Default == nil
}

func (u FlagUpdate) apply(flag engine.Flag) engine.Flag {
	out := flag.Clone()
	if u.Enabled != nil {
		out.Enabled = *u.Enabled
	}
	if u.Segments != nil {
		out.Segments = slices.Clone(u.Segments)
	}
	if u.Rollout != nil {
		out.Rollout = make(engine.Rollout, len(u.Rollout))
		for k, v := range u.Rollout {
			out.Rollout[k] = v
		}
	}
	if u.Payload != nil {
		out.Payload = slices.Clone(u.Payload)
	}
	if u.Default != nil {
		out.Default = *u.Default
	}
	return out
}
