package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// TotalWeight is the fixed sum of all rollout weights, giving 0.01%
// rollout granularity. Bucket positions fall in [0, TotalWeight).
const TotalWeight = 10000

// Rollout outcome keys for boolean and payload flags.
const (
	OutcomeOn  = "on"
	OutcomeOff = "off"
)

// Rollout is a weighted distribution over outcomes: variant names for
// variant flags, or the on/off split for boolean and payload flags.
// Weights are non-negative and sum to TotalWeight. Cumulative ranges are
// always built over the outcome keys in lexicographic order, so a given
// configuration yields the same boundaries in every process.
type Rollout map[string]int

// outcomes returns the rollout keys in the fixed range-building order.
func (r Rollout) outcomes() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// pick selects the outcome whose cumulative weight range contains the
// bucket position. ok is false when the position falls past the final
// range, which validated rollouts make impossible.
func (r Rollout) pick(position int) (string, bool) {
	cumulative := 0
	for _, outcome := range r.outcomes() {
		cumulative += r[outcome]
		if position < cumulative {
			return outcome, true
		}
	}
	return "", false
}

// Flag is one feature flag inside a tenant document. ID and Kind are
// immutable once the flag is created.
type Flag struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Enabled bool   `json:"enabled"`
	// Segments lists targeted segment ids in match-priority order:
	// the first matching segment wins.
	Segments []string `json:"segments,omitempty"`
	// Rollout is the tenant-wide weighted distribution consulted when no
	// segment matches.
	Rollout Rollout `json:"rollout,omitempty"`
	// Payload is the result served when a payload flag is on.
	Payload json.RawMessage `json:"payload,omitempty"`
	// Default is returned when the flag is disabled, or when no segment
	// matches and no rollout is configured.
	Default Value `json:"default"`
}

// Validate checks the flag's internal consistency. Referential integrity
// of Segments against the tenant document is the store's responsibility.
func (f Flag) Validate() error {
	if f.ID == "" {
		return errors.Join(ErrInvalidFlag, errors.New("flag id must not be empty"))
	}
	if !f.Kind.Valid() {
		return errors.Join(ErrInvalidFlag, fmt.Errorf("unknown flag kind %q", f.Kind))
	}
	if f.Default.Kind() != f.Kind {
		return errors.Join(ErrInvalidFlag,
			fmt.Errorf("default kind %q does not match flag kind %q", f.Default.Kind(), f.Kind))
	}
	if f.Kind == KindPayload && len(f.Payload) == 0 {
		return errors.Join(ErrInvalidFlag, errors.New("payload flag requires a payload"))
	}
	if len(f.Rollout) > 0 {
		sum := 0
		for outcome, weight := range f.Rollout {
			if weight < 0 {
				return errors.Join(ErrInvalidFlag,
					fmt.Errorf("rollout weight for %q is negative", outcome))
			}
			if f.Kind != KindVariant && outcome != OutcomeOn && outcome != OutcomeOff {
				return errors.Join(ErrInvalidFlag,
					fmt.Errorf("%s rollout outcome must be %q or %q, got %q",
						f.Kind, OutcomeOn, OutcomeOff, outcome))
			}
			sum += weight
		}
		if sum != TotalWeight {
			return errors.Join(ErrInvalidFlag,
				fmt.Errorf("rollout weights sum to %d, want %d", sum, TotalWeight))
		}
	}
	return nil
}

// Clone returns a deep copy; mutating the copy leaves the original
// untouched.
func (f Flag) Clone() Flag {
	out := f
	out.Segments = slices.Clone(f.Segments)
	if f.Rollout != nil {
		out.Rollout = make(Rollout, len(f.Rollout))
		for k, v := range f.Rollout {
			out.Rollout[k] = v
		}
	}
	out.Payload = slices.Clone(f.Payload)
	return out
}
