package segment

import (
	"encoding/json"
	"strings"
)

// compare applies op to the actual attribute value and the rule's expected
// value. Values decoded from JSON arrive as string, bool, float64 or
// json.Number; numeric comparisons mix those freely, everything else
// requires matching types. Incomparable pairs are false, never an error.
func compare(op Op, value, target any) bool {
	switch op {
	case OpEq:
		return equal(value, target)
	case OpNe:
		return !equal(value, target)
	case OpIn:
		return member(value, target)
	case OpLt:
		c, ok := order(value, target)
		return ok && c < 0
	case OpLte:
		c, ok := order(value, target)
		return ok && c <= 0
	case OpGt:
		c, ok := order(value, target)
		return ok && c > 0
	case OpGte:
		c, ok := order(value, target)
		return ok && c >= 0
	case OpContains:
		a, okA := asString(value)
		b, okB := asString(target)
		return okA && okB && strings.Contains(a, b)
	case OpPrefix:
		a, okA := asString(value)
		b, okB := asString(target)
		return okA && okB && strings.HasPrefix(a, b)
	default:
		return false
	}
}

func equal(a, b any) bool {
	if na, nb, ok := asNumbers(a, b); ok {
		return na == nb
	}
	sa, okA := asString(a)
	sb, okB := asString(b)
	if okA && okB {
		return sa == sb
	}
	ba, okA := a.(bool)
	bb, okB := b.(bool)
	if okA && okB {
		return ba == bb
	}
	return false
}

// member implements set membership: value in target, where target is a
// list of candidates. A non-list target is treated as a single candidate.
func member(value, target any) bool {
	list, ok := target.([]any)
	if !ok {
		return equal(value, target)
	}
	for _, candidate := range list {
		if equal(value, candidate) {
			return true
		}
	}
	return false
}

// order returns a three-way comparison. Numbers order numerically and
// strings lexicographically; mixed or unordered types report ok=false.
func order(a, b any) (int, bool) {
	if na, nb, ok := asNumbers(a, b); ok {
		switch {
		case na < nb:
			return -1, true
		case na > nb:
			return 1, true
		default:
			return 0, true
		}
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

func asNumbers(a, b any) (float64, float64, bool) {
	na, okA := toFloat64(a)
	nb, okB := toFloat64(b)
	return na, nb, okA && okB
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
