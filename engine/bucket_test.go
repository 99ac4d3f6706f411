package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaggly/flaggly/engine"
)

func TestBucketDeterminism(t *testing.T) {
	t.Parallel()

	first := engine.Bucket("checkout-v2", "user-123")
	for range 100 {
		assert.Equal(t, first, engine.Bucket("checkout-v2", "user-123"))
	}
}

func TestBucketRange(t *testing.T) {
	t.Parallel()

	for i := range 1000 {
		p := engine.Bucket("some-flag", fmt.Sprintf("subject-%d", i))
		require.GreaterOrEqual(t, p, 0)
		require.Less(t, p, engine.TotalWeight)
	}
}

func TestBucketIsolatedPerFlag(t *testing.T) {
	t.Parallel()

	// Positions for one flag must not depend on any other flag's id, and
	// different flags should spread the same subject differently.
	differs := 0
	for i := range 200 {
		subject := fmt.Sprintf("subject-%d", i)
		if engine.Bucket("flag-a", subject) != engine.Bucket("flag-b", subject) {
			differs++
		}
	}
	assert.Greater(t, differs, 150, "flags should bucket subjects independently")
}

func TestBucketRoughlyUniform(t *testing.T) {
	t.Parallel()

	const n = 20000
	low := 0
	for i := range n {
		if engine.Bucket("uniform-check", fmt.Sprintf("subject-%d", i)) < engine.TotalWeight/2 {
			low++
		}
	}
	// Expect ~50% below the midpoint; allow a wide margin.
	assert.InDelta(t, n/2, low, n/20)
}

// Widening one outcome's weight must only move subjects across the
// adjusted boundary: anyone bucketed below the old boundary keeps their
// outcome.
func TestRolloutBoundaryStability(t *testing.T) {
	t.Parallel()

	before := engine.Rollout{"a": 5000, "b": 5000}
	after := engine.Rollout{"a": 6000, "b": 4000}

	eval := engine.New()
	flag := func(r engine.Rollout) engine.Flag {
		return engine.Flag{
			ID:      "widening",
			Kind:    engine.KindVariant,
			Enabled: true,
			Rollout: r,
			Default: engine.Variant("a"),
		}
	}

	for i := range 2000 {
		subject := fmt.Sprintf("subject-%d", i)
		ctx := engine.Context{SubjectID: subject}

		was := eval.Evaluate(flag(before), nil, ctx)
		now := eval.Evaluate(flag(after), nil, ctx)

		position := engine.Bucket("widening", subject)
		switch {
		case position < 5000:
			require.Equal(t, "a", was.AsVariant())
			require.Equal(t, "a", now.AsVariant(), "subject %s at %d flipped away from a", subject, position)
		case position < 6000:
			require.Equal(t, "b", was.AsVariant())
			require.Equal(t, "a", now.AsVariant())
		default:
			require.Equal(t, "b", was.AsVariant())
			require.Equal(t, "b", now.AsVariant())
		}
	}
}
