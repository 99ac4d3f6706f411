package engine

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/flaggly/flaggly/segment"
)

// AnonymousPolicy controls bucketing when the context carries no subject
// id. Percentage rollouts need a stable identifier to be sticky; without
// one the service must choose an explicit degradation.
type AnonymousPolicy int

const (
	// AnonymousRandom buckets anonymous subjects with an ephemeral random
	// id: the configured weights still apply to anonymous traffic in
	// aggregate, but repeated requests are not sticky.
	AnonymousRandom AnonymousPolicy = iota
	// AnonymousDefault skips rollout selection entirely for anonymous
	// subjects and serves the flag default.
	AnonymousDefault
)

// Evaluator decides flag results. It is stateless and safe for
// concurrent use; every call works on the document snapshot it is given.
type Evaluator struct {
	log  *slog.Logger
	anon AnonymousPolicy
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used to report configuration-integrity
// faults (a flag referencing a segment missing from the document).
func WithLogger(log *slog.Logger) Option {
	return func(e *Evaluator) {
		if log != nil {
			e.log = log
		}
	}
}

// WithAnonymousPolicy sets the missing-subject-id fallback.
func WithAnonymousPolicy(p AnonymousPolicy) Option {
	return func(e *Evaluator) { e.anon = p }
}

// New returns a configured Evaluator. The defaults are AnonymousRandom
// and a discard logger.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		log:  slog.New(slog.DiscardHandler),
		anon: AnonymousRandom,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate decides one flag for one context. It is total: any flag and
// context produce a result, never an error.
//
// The decision order is: disabled short-circuit, then the flag's segments
// in declared order (first match wins), then the tenant-wide rollout,
// then the default. A segment id missing from the document is a
// configuration-integrity fault the store's write-time checks should make
// impossible; the engine fails open by treating it as non-matching and
// logs it rather than failing the request.
func (e *Evaluator) Evaluate(flag Flag, segments map[string]segment.Rule, ctx Context) Value {
	if !flag.Enabled {
		return flag.Default
	}

	for _, segmentID := range flag.Segments {
		rule, ok := segments[segmentID]
		if !ok {
			e.log.Warn("flag references missing segment",
				slog.String("flag", flag.ID),
				slog.String("segment", segmentID))
			continue
		}
		if segment.Match(rule, &ctx) {
			return e.matchedOutcome(flag, ctx)
		}
	}

	if len(flag.Rollout) > 0 {
		return e.rollout(flag, ctx)
	}

	return flag.Default
}

// EvaluateAll runs the per-flag algorithm independently for every flag in
// one document snapshot; flags do not interact within a batch.
func (e *Evaluator) EvaluateAll(flags map[string]Flag, segments map[string]segment.Rule, ctx Context) map[string]Value {
	results := make(map[string]Value, len(flags))
	for id, flag := range flags {
		results[id] = e.Evaluate(flag, segments, ctx)
	}
	return results
}

// matchedOutcome is the positive outcome a matched segment selects:
// boolean flags turn on, payload flags serve their payload, and variant
// flags pick a variant through the flag's rollout since no single
// variant is "on". A variant flag without a rollout serves its default.
func (e *Evaluator) matchedOutcome(flag Flag, ctx Context) Value {
	switch flag.Kind {
	case KindBoolean:
		return Bool(true)
	case KindPayload:
		return Payload(flag.Payload)
	case KindVariant:
		if len(flag.Rollout) > 0 {
			return e.rollout(flag, ctx)
		}
	}
	return flag.Default
}

func (e *Evaluator) rollout(flag Flag, ctx Context) Value {
	subjectID := ctx.SubjectID
	if subjectID == "" {
		switch e.anon {
		case AnonymousDefault:
			return flag.Default
		default:
			subjectID = uuid.NewString()
		}
	}

	outcome, ok := flag.Rollout.pick(Bucket(flag.ID, subjectID))
	if !ok {
		// Underweighted rollout, rejected at write time; fail safe.
		return flag.Default
	}

	switch flag.Kind {
	case KindVariant:
		return Variant(outcome)
	case KindBoolean:
		return Bool(outcome == OutcomeOn)
	case KindPayload:
		if outcome == OutcomeOn {
			return Payload(flag.Payload)
		}
		return flag.Default
	}
	return flag.Default
}
