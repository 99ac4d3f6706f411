package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind identifies the shape of a flag's result and is fixed at flag
// creation.
type Kind string

const (
	KindBoolean Kind = "boolean"
	KindVariant Kind = "variant"
	KindPayload Kind = "payload"
)

// Valid reports whether k is one of the known flag kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBoolean, KindVariant, KindPayload:
		return true
	}
	return false
}

// Value is a tagged evaluation result: exactly one case per kind. It is
// used both for flag defaults and for evaluation responses, and
// serializes as {"type": <kind>, "result": <bool|string|json>}.
type Value struct {
	kind    Kind
	boolean bool
	variant string
	payload json.RawMessage
}

// Bool returns a boolean-kind value.
func Bool(v bool) Value {
	return Value{kind: KindBoolean, boolean: v}
}

// Variant returns a variant-kind value holding the variant name.
func Variant(name string) Value {
	return Value{kind: KindVariant, variant: name}
}

// Payload returns a payload-kind value holding raw JSON.
func Payload(raw json.RawMessage) Value {
	return Value{kind: KindPayload, payload: raw}
}

// Kind returns the value's kind; the zero Value has an empty kind.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether the value carries no result at all.
func (v Value) IsZero() bool { return v.kind == "" }

// AsBool returns the boolean case; false for other kinds.
func (v Value) AsBool() bool { return v.kind == KindBoolean && v.boolean }

// AsVariant returns the variant name; empty for other kinds.
func (v Value) AsVariant() string {
	if v.kind != KindVariant {
		return ""
	}
	return v.variant
}

// AsPayload returns the raw payload; nil for other kinds.
func (v Value) AsPayload() json.RawMessage {
	if v.kind != KindPayload {
		return nil
	}
	return v.payload
}

// Equal reports whether two values carry the same kind and result.
// Payloads compare by compacted JSON bytes.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBoolean:
		return v.boolean == other.boolean
	case KindVariant:
		return v.variant == other.variant
	case KindPayload:
		return bytes.Equal(compactJSON(v.payload), compactJSON(other.payload))
	}
	return true
}

func compactJSON(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

type valueJSON struct {
	Type   Kind            `json:"type"`
	Result json.RawMessage `json:"result"`
}

// MarshalJSON serializes the value as {"type": ..., "result": ...}.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Type: v.kind}
	switch v.kind {
	case KindBoolean:
		if v.boolean {
			out.Result = json.RawMessage("true")
		} else {
			out.Result = json.RawMessage("false")
		}
	case KindVariant:
		name, err := json.Marshal(v.variant)
		if err != nil {
			return nil, err
		}
		out.Result = name
	case KindPayload:
		if v.payload == nil {
			out.Result = json.RawMessage("null")
		} else {
			out.Result = v.payload
		}
	default:
		return nil, errors.Join(ErrInvalidValue, fmt.Errorf("unknown kind %q", v.kind))
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses {"type": ..., "result": ...} and validates that
// the result matches the declared kind.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Join(ErrInvalidValue, err)
	}
	switch in.Type {
	case KindBoolean:
		var b bool
		if err := json.Unmarshal(in.Result, &b); err != nil {
			return errors.Join(ErrInvalidValue, fmt.Errorf("boolean value: %w", err))
		}
		*v = Bool(b)
	case KindVariant:
		var name string
		if err := json.Unmarshal(in.Result, &name); err != nil {
			return errors.Join(ErrInvalidValue, fmt.Errorf("variant value: %w", err))
		}
		*v = Variant(name)
	case KindPayload:
		*v = Payload(in.Result)
	default:
		return errors.Join(ErrInvalidValue, fmt.Errorf("unknown kind %q", in.Type))
	}
	return nil
}
