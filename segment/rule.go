package segment

// Op identifies a comparison operator in a rule leaf.
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpIn       Op = "in"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpContains Op = "contains"
	OpPrefix   Op = "prefix"
)

// Rule is a predicate over an evaluation context. A rule is either a
// comparison leaf (Attr/Op/Value) or a composite combining child rules
// with boolean logic. When several parts are set on one rule they must
// all hold. The zero rule matches nothing.
type Rule struct {
	// All matches when every child rule matches (AND).
	All []Rule `json:"all,omitempty" yaml:"all,omitempty"`
	// AnyOf matches when at least one child rule matches (OR).
	AnyOf []Rule `json:"any,omitempty" yaml:"any,omitempty"`
	// Not inverts the child rule.
	Not *Rule `json:"not,omitempty" yaml:"not,omitempty"`

	// Attr is a dotted path into the evaluation context, e.g. "id",
	// "user.plan", "page.url", "geo.country", "request.headers.x-team".
	Attr string `json:"attr,omitempty" yaml:"attr,omitempty"`
	// Op is the comparison operator applied to the attribute.
	Op Op `json:"op,omitempty" yaml:"op,omitempty"`
	// Value is the expected value; for OpIn it is a list of candidates.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`
}

// Context supplies attribute values to rule evaluation. Implementations
// report ok=false for attributes they do not carry; the matcher treats
// those leaves as non-matching.
type Context interface {
	Attribute(path string) (any, bool)
}
