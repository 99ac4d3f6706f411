package store

import (
	"github.com/flaggly/flaggly/engine"
	"github.com/flaggly/flaggly/segment"
)

// Document is one tenant's whole flag configuration. It is the unit of
// persistence: every mutation rewrites the document as a whole, and a
// tenant that was never written to reads as an empty document.
//
// Flag ids and segment ids live in separate namespaces; the same literal
// may appear in both without collision.
type Document struct {
	Flags    map[string]engine.Flag  `json:"flags"`
	Segments map[string]segment.Rule `json:"segments"`
}

// NewDocument returns an empty document with initialized maps.
func NewDocument() *Document {
	return &Document{
		Flags:    make(map[string]engine.Flag),
		Segments: make(map[string]segment.Rule),
	}
}

// Clone deep-copies the document so a mutation cycle never aliases the
// snapshot it started from.
func (d *Document) Clone() *Document {
	out := NewDocument()
	for id, flag := range d.Flags {
		out.Flags[id] = flag.Clone()
	}
	for id, rule := range d.Segments {
		out.Segments[id] = rule
	}
	return out
}

// normalize initializes nil maps after JSON decoding.
func (d *Document) normalize() {
	if d.Flags == nil {
		d.Flags = make(map[string]engine.Flag)
	}
	if d.Segments == nil {
		d.Segments = make(map[string]segment.Rule)
	}
}
