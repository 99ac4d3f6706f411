// Package segment implements targeting rules: predicate trees evaluated
// against a request's evaluation context.
//
// A Rule is either a comparison leaf over a dotted attribute path
// (user properties, geo fields, page url, request headers, or the subject
// id) or a composite combining children with AND/OR/NOT. Matching is
// total: a missing attribute or a type mismatch makes the affected leaf
// false rather than producing an error, so one malformed rule can never
// fail a request.
//
// Example rule, as stored in a tenant document:
//
//	{
//	  "all": [
//	    {"attr": "user.plan", "op": "in", "value": ["pro", "team"]},
//	    {"not": {"attr": "geo.country", "op": "eq", "value": "US"}}
//	  ]
//	}
package segment
