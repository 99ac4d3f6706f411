package engine_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaggly/flaggly/engine"
	"github.com/flaggly/flaggly/segment"
)

func planRule(plan string) segment.Rule {
	return segment.Rule{Attr: "user.plan", Op: segment.OpEq, Value: plan}
}

func proContext(subjectID string) engine.Context {
	return engine.Context{
		SubjectID: subjectID,
		User:      map[string]any{"plan": "pro"},
	}
}

func TestEvaluateDisabledShortCircuit(t *testing.T) {
	t.Parallel()

	eval := engine.New()
	flag := engine.Flag{
		ID:       "dark-mode",
		Kind:     engine.KindBoolean,
		Enabled:  false,
		Segments: []string{"everyone"},
		Rollout:  engine.Rollout{engine.OutcomeOn: engine.TotalWeight},
		Default:  engine.Bool(false),
	}
	segments := map[string]segment.Rule{
		"everyone": planRule("pro"),
	}

	got := eval.Evaluate(flag, segments, proContext("user-1"))
	assert.True(t, got.Equal(engine.Bool(false)), "disabled flag must return its default")
}

func TestEvaluateSegmentPrecedence(t *testing.T) {
	t.Parallel()

	eval := engine.New()
	// Both segments match; s1 is declared first and must govern.
	flag := engine.Flag{
		ID:       "ranking-model",
		Kind:     engine.KindBoolean,
		Enabled:  true,
		Segments: []string{"s1", "s2"},
		Default:  engine.Bool(false),
	}
	segments := map[string]segment.Rule{
		"s1": planRule("pro"),
		"s2": planRule("pro"),
	}

	got := eval.Evaluate(flag, segments, proContext("user-1"))
	assert.True(t, got.AsBool())

	// Drop s1 and flip s2 to non-matching to prove the iteration actually
	// consults the remaining segment.
	segments["s2"] = planRule("enterprise")
	flag.Segments = []string{"s2"}
	got = eval.Evaluate(flag, segments, proContext("user-1"))
	assert.False(t, got.AsBool())
}

func TestEvaluateMissingSegmentFailsOpen(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	eval := engine.New(engine.WithLogger(log))

	flag := engine.Flag{
		ID:       "beta-banner",
		Kind:     engine.KindBoolean,
		Enabled:  true,
		Segments: []string{"ghost", "pro-users"},
		Default:  engine.Bool(false),
	}
	segments := map[string]segment.Rule{
		"pro-users": planRule("pro"),
	}

	got := eval.Evaluate(flag, segments, proContext("user-1"))
	assert.True(t, got.AsBool(), "missing segment is skipped, later segments still match")
	assert.Contains(t, buf.String(), "ghost", "configuration fault must be logged")
}

func TestEvaluateRolloutFallback(t *testing.T) {
	t.Parallel()

	eval := engine.New()
	flag := engine.Flag{
		ID:      "recommendations",
		Kind:    engine.KindVariant,
		Enabled: true,
		Rollout: engine.Rollout{"control": 5000, "treatment": 5000},
		Default: engine.Variant("control"),
	}

	ctx := engine.Context{SubjectID: "user-7"}
	got := eval.Evaluate(flag, nil, ctx)
	want := "control"
	if engine.Bucket("recommendations", "user-7") >= 5000 {
		want = "treatment"
	}
	assert.Equal(t, want, got.AsVariant())

	// Repeated evaluation is identical.
	for range 50 {
		assert.True(t, got.Equal(eval.Evaluate(flag, nil, ctx)))
	}
}

func TestEvaluateNoRolloutNoMatchReturnsDefault(t *testing.T) {
	t.Parallel()

	eval := engine.New()
	flag := engine.Flag{
		ID:       "new-editor",
		Kind:     engine.KindVariant,
		Enabled:  true,
		Segments: []string{"pro-users"},
		Default:  engine.Variant("classic"),
	}
	segments := map[string]segment.Rule{
		"pro-users": planRule("pro"),
	}

	ctx := engine.Context{SubjectID: "user-1", User: map[string]any{"plan": "free"}}
	got := eval.Evaluate(flag, segments, ctx)
	assert.Equal(t, "classic", got.AsVariant())
}

func TestEvaluatePayloadFlag(t *testing.T) {
	t.Parallel()

	eval := engine.New()
	payload := json.RawMessage(`{"theme":"midnight","accent":"#7c3aed"}`)
	fallback := json.RawMessage(`{"theme":"light"}`)
	flag := engine.Flag{
		ID:       "theme-config",
		Kind:     engine.KindPayload,
		Enabled:  true,
		Segments: []string{"pro-users"},
		Payload:  payload,
		Default:  engine.Payload(fallback),
	}
	segments := map[string]segment.Rule{
		"pro-users": planRule("pro"),
	}

	t.Run("segment match serves the payload", func(t *testing.T) {
		t.Parallel()
		got := eval.Evaluate(flag, segments, proContext("user-1"))
		assert.True(t, got.Equal(engine.Payload(payload)))
	})

	t.Run("no match serves the default", func(t *testing.T) {
		t.Parallel()
		ctx := engine.Context{SubjectID: "user-1", User: map[string]any{"plan": "free"}}
		got := eval.Evaluate(flag, segments, ctx)
		assert.True(t, got.Equal(engine.Payload(fallback)))
	})

	t.Run("rollout off serves the default", func(t *testing.T) {
		t.Parallel()
		off := flag.Clone()
		off.Segments = nil
		off.Rollout = engine.Rollout{engine.OutcomeOff: engine.TotalWeight}
		got := eval.Evaluate(off, nil, engine.Context{SubjectID: "user-1"})
		assert.True(t, got.Equal(engine.Payload(fallback)))
	})
}

func TestEvaluateBooleanRolloutOffIsFalse(t *testing.T) {
	t.Parallel()

	eval := engine.New()
	flag := engine.Flag{
		ID:      "kill-switch-test",
		Kind:    engine.KindBoolean,
		Enabled: true,
		Rollout: engine.Rollout{engine.OutcomeOff: engine.TotalWeight},
		Default: engine.Bool(true),
	}

	got := eval.Evaluate(flag, nil, engine.Context{SubjectID: "user-1"})
	assert.True(t, got.Equal(engine.Bool(false)), "rollout off is false, not the default")
}

func TestEvaluateAnonymousPolicies(t *testing.T) {
	t.Parallel()

	fullOn := engine.Flag{
		ID:      "anon-flag",
		Kind:    engine.KindBoolean,
		Enabled: true,
		Rollout: engine.Rollout{engine.OutcomeOn: engine.TotalWeight},
		Default: engine.Bool(false),
	}

	t.Run("random policy still applies weights", func(t *testing.T) {
		t.Parallel()
		eval := engine.New(engine.WithAnonymousPolicy(engine.AnonymousRandom))
		// With the whole range on "on", every ephemeral id lands on it.
		for range 20 {
			got := eval.Evaluate(fullOn, nil, engine.Context{})
			assert.True(t, got.AsBool())
		}
	})

	t.Run("default policy skips the rollout", func(t *testing.T) {
		t.Parallel()
		eval := engine.New(engine.WithAnonymousPolicy(engine.AnonymousDefault))
		got := eval.Evaluate(fullOn, nil, engine.Context{})
		assert.True(t, got.Equal(engine.Bool(false)))
	})

	t.Run("random policy splits anonymous traffic", func(t *testing.T) {
		t.Parallel()
		eval := engine.New()
		split := engine.Flag{
			ID:      "anon-split",
			Kind:    engine.KindBoolean,
			Enabled: true,
			Rollout: engine.Rollout{engine.OutcomeOn: 5000, engine.OutcomeOff: 5000},
			Default: engine.Bool(false),
		}
		on := 0
		const n = 2000
		for range n {
			if eval.Evaluate(split, nil, engine.Context{}).AsBool() {
				on++
			}
		}
		assert.InDelta(t, n/2, on, n/5, "anonymous traffic should roughly follow the weights")
	})
}

func TestEvaluateAll(t *testing.T) {
	t.Parallel()

	eval := engine.New()
	flags := map[string]engine.Flag{
		"a": {
			ID: "a", Kind: engine.KindBoolean, Enabled: true,
			Segments: []string{"pro-users"}, Default: engine.Bool(false),
		},
		"b": {
			ID: "b", Kind: engine.KindBoolean, Enabled: false,
			Default: engine.Bool(false),
		},
		"c": {
			ID: "c", Kind: engine.KindVariant, Enabled: true,
			Rollout: engine.Rollout{"x": engine.TotalWeight},
			Default: engine.Variant("x"),
		},
	}
	segments := map[string]segment.Rule{
		"pro-users": planRule("pro"),
	}

	results := eval.EvaluateAll(flags, segments, proContext("user-9"))
	require.Len(t, results, 3)
	assert.True(t, results["a"].AsBool())
	assert.False(t, results["b"].AsBool())
	assert.Equal(t, "x", results["c"].AsVariant())
}

func TestEvaluateDeterministicAcrossSubjects(t *testing.T) {
	t.Parallel()

	eval := engine.New()
	flag := engine.Flag{
		ID:      "sticky",
		Kind:    engine.KindVariant,
		Enabled: true,
		Rollout: engine.Rollout{"a": 2500, "b": 2500, "c": 5000},
		Default: engine.Variant("a"),
	}

	for i := range 100 {
		ctx := engine.Context{SubjectID: fmt.Sprintf("subject-%d", i)}
		first := eval.Evaluate(flag, nil, ctx)
		for range 10 {
			require.True(t, first.Equal(eval.Evaluate(flag, nil, ctx)))
		}
	}
}
