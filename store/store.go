package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/flaggly/flaggly/engine"
	"github.com/flaggly/flaggly/pkg/kv"
	"github.com/flaggly/flaggly/segment"
)

// conflictRetries bounds how often a mutation re-runs its whole
// read-modify-write cycle after losing a conditional write.
const conflictRetries = 3

// Store owns one tenant's configuration document. Reads return a fresh
// snapshot; mutations run a full read-modify-write cycle against the
// versioned kv layer, so concurrent writers conflict instead of silently
// clobbering each other.
type Store struct {
	kv  kv.Store
	app string
	env string
}

// New returns a store bound to the (app, env) tenant. The value is
// cheap; transports construct one per request.
func New(kvStore kv.Store, app, env string) *Store {
	return &Store{kv: kvStore, app: app, env: env}
}

// Key is the tenant's persistence key.
func (s *Store) Key() string {
	return fmt.Sprintf("v1:%s:%s", s.app, s.env)
}

// GetData returns the tenant document, empty if the tenant was never
// written to.
func (s *Store) GetData(ctx context.Context) (*Document, error) {
	doc, _, err := s.load(ctx)
	if err != nil {
		return nil, errors.Join(ErrGetDataFailed, err)
	}
	return doc, nil
}

// PutFlag creates or replaces a flag. Every segment id the flag
// references must already exist in the document; otherwise the write
// fails with ErrSegmentNotFound and the document is unchanged.
func (s *Store) PutFlag(ctx context.Context, flag engine.Flag) (*Document, error) {
	if err := flag.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}

	doc, err := s.mutate(ctx, func(doc *Document) error {
		if err := checkSegments(doc, flag.Segments); err != nil {
			return err
		}
		doc.Flags[flag.ID] = flag.Clone()
		return nil
	})
	if err != nil {
		return nil, failWith(ErrPutFlagFailed, err)
	}
	return doc, nil
}

// UpdateFlag merges a partial update over an existing flag. The merged
// flag is re-validated; ID and Kind cannot change.
func (s *Store) UpdateFlag(ctx context.Context, id string, update FlagUpdate) (*Document, error) {
	if update.IsZero() {
		return nil, errors.Join(ErrInvalidInput, errors.New("update must change at least one field"))
	}

	doc, err := s.mutate(ctx, func(doc *Document) error {
		if err := checkSegments(doc, update.Segments); err != nil {
			return err
		}
		existing, ok := doc.Flags[id]
		if !ok {
			return ErrFlagNotFound
		}
		merged := update.apply(existing)
		if err := merged.Validate(); err != nil {
			return errors.Join(ErrInvalidInput, err)
		}
		doc.Flags[id] = merged
		return nil
	})
	if err != nil {
		return nil, failWith(ErrUpdateFlagFailed, err)
	}
	return doc, nil
}

// DeleteFlag removes a flag by id.
func (s *Store) DeleteFlag(ctx context.Context, id string) (*Document, error) {
	doc, err := s.mutate(ctx, func(doc *Document) error {
		if _, ok := doc.Flags[id]; !ok {
			return ErrFlagNotFound
		}
		delete(doc.Flags, id)
		return nil
	})
	if err != nil {
		return nil, failWith(ErrDeleteFlagFailed, err)
	}
	return doc, nil
}

// PutSegment creates or replaces a segment rule.
func (s *Store) PutSegment(ctx context.Context, id string, rule segment.Rule) (*Document, error) {
	if id == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("segment id must not be empty"))
	}

	doc, err := s.mutate(ctx, func(doc *Document) error {
		doc.Segments[id] = rule
		return nil
	})
	if err != nil {
		return nil, failWith(ErrPutSegmentFailed, err)
	}
	return doc, nil
}

// DeleteSegment removes a segment and, in the same write, removes its id
// from every flag's segment list, preserving the remaining order. This
// cascade is what keeps the document's referential integrity a write-time
// invariant.
func (s *Store) DeleteSegment(ctx context.Context, id string) (*Document, error) {
	doc, err := s.mutate(ctx, func(doc *Document) error {
		if _, ok := doc.Segments[id]; !ok {
			return ErrSegmentNotFound
		}
		delete(doc.Segments, id)

		for flagID, flag := range doc.Flags {
			if !slices.Contains(flag.Segments, id) {
				continue
			}
			flag.Segments = slices.DeleteFunc(flag.Segments, func(s string) bool {
				return s == id
			})
			doc.Flags[flagID] = flag
		}
		return nil
	})
	if err != nil {
		return nil, failWith(ErrDeleteSegmentFailed, err)
	}
	return doc, nil
}

// mutate runs one read-modify-write cycle, retrying the whole cycle when
// the conditional write loses to a concurrent writer.
func (s *Store) mutate(ctx context.Context, fn func(*Document) error) (*Document, error) {
	for range conflictRetries {
		doc, version, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		if err := fn(doc); err != nil {
			return nil, err
		}
		err = s.save(ctx, doc, version)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, kv.ErrVersionMismatch) {
			return nil, err
		}
	}
	return nil, ErrConflict
}

func (s *Store) load(ctx context.Context) (*Document, int64, error) {
	raw, version, err := s.kv.Get(ctx, s.Key())
	if errors.Is(err, kv.ErrNotFound) {
		return NewDocument(), 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, 0, err
	}
	doc.normalize()
	return &doc, version, nil
}

func (s *Store) save(ctx context.Context, doc *Document, version int64) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, s.Key(), raw, version)
}

func checkSegments(doc *Document, ids []string) error {
	for _, id := range ids {
		if _, ok := doc.Segments[id]; !ok {
			return errors.Join(ErrSegmentNotFound,
				fmt.Errorf("add segment %q before referencing it", id))
		}
	}
	return nil
}

// failWith tags storage failures with the operation sentinel while
// letting caller errors and conflicts pass through untouched, so
// errors.Is checks stay precise.
func failWith(op error, err error) error {
	if IsCallerError(err) || errors.Is(err, ErrConflict) {
		return err
	}
	return errors.Join(op, err)
}
