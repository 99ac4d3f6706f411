package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flaggly/flaggly/pkg/kv"
)

// LoadSeed reads a tenant document from a YAML file. The file mirrors
// the document's JSON layout:
//
//	segments:
//	  pro-users:
//	    attr: user.plan
//	    op: eq
//	    value: pro
//	flags:
//	  dark-mode:
//	    id: dark-mode
//	    kind: boolean
//	    enabled: true
//	    segments: [pro-users]
//	    default: {type: boolean, result: false}
//
// Flags are validated and their segment references checked before the
// document is returned.
func LoadSeed(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Decode through JSON so the document types keep a single codec.
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	jsonRaw, err := json.Marshal(tree)
	if err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}

	var doc Document
	if err := json.Unmarshal(jsonRaw, &doc); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	doc.normalize()

	for id, flag := range doc.Flags {
		if flag.ID == "" {
			flag.ID = id
			doc.Flags[id] = flag
		}
		if flag.ID != id {
			return nil, errors.Join(ErrInvalidInput,
				fmt.Errorf("flag key %q does not match flag id %q", id, flag.ID))
		}
		if err := flag.Validate(); err != nil {
			return nil, errors.Join(ErrInvalidInput, err)
		}
		if err := checkSegments(&doc, flag.Segments); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// Seed writes the document for this tenant only when no document exists
// yet, so restarting a seeded service never overwrites live mutations.
func (s *Store) Seed(ctx context.Context, doc *Document) error {
	err := s.save(ctx, doc, 0)
	if errors.Is(err, kv.ErrVersionMismatch) {
		return nil
	}
	return err
}
