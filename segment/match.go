package segment

// Match evaluates a rule against the context. It is a total function:
// missing attributes, unknown operators, and type mismatches make the
// affected leaf false instead of failing the evaluation.
func Match(rule Rule, ctx Context) bool {
	matched := false

	if len(rule.All) > 0 {
		for _, child := range rule.All {
			if !Match(child, ctx) {
				return false
			}
		}
		matched = true
	}

	if len(rule.AnyOf) > 0 {
		any := false
		for _, child := range rule.AnyOf {
			if Match(child, ctx) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
		matched = true
	}

	if rule.Not != nil {
		if Match(*rule.Not, ctx) {
			return false
		}
		matched = true
	}

	if rule.Attr != "" {
		if !matchLeaf(rule, ctx) {
			return false
		}
		matched = true
	}

	return matched
}

func matchLeaf(rule Rule, ctx Context) bool {
	if ctx == nil {
		return false
	}
	value, ok := ctx.Attribute(rule.Attr)
	if !ok || value == nil {
		return false
	}
	return compare(rule.Op, value, rule.Value)
}
