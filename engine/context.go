package engine

import "strings"

// Geo carries request-derived network and geographic metadata. It is
// supplied by the serving layer, never by the client.
type Geo struct {
	IP       string `json:"ip,omitempty"`
	Country  string `json:"country,omitempty"`
	Region   string `json:"region,omitempty"`
	City     string `json:"city,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Context is the per-request evaluation context one flag decision is made
// against.
type Context struct {
	// SubjectID is the stable identifier used for bucketing. Empty for
	// anonymous requests; see AnonymousPolicy for the fallback behavior.
	SubjectID string
	// User is the client-supplied free-form attribute bag.
	User map[string]any
	// PageURL is the page the client evaluated flags from, if any.
	PageURL string
	// Geo is request-derived geographic metadata.
	Geo Geo
	// Headers maps lower-cased request header names to their first value.
	Headers map[string]string
}

// Attribute resolves a dotted rule path against the context. Recognized
// roots: "id", "user", "page.url", "geo", "request.headers". Unknown
// paths report ok=false, which rule evaluation treats as non-matching.
func (c *Context) Attribute(path string) (any, bool) {
	root, rest, _ := strings.Cut(path, ".")
	switch root {
	case "id":
		if rest != "" || c.SubjectID == "" {
			return nil, false
		}
		return c.SubjectID, true
	case "user":
		if rest == "" {
			return nil, false
		}
		return lookup(c.User, rest)
	case "page":
		if rest != "url" || c.PageURL == "" {
			return nil, false
		}
		return c.PageURL, true
	case "geo":
		return c.geoAttribute(rest)
	case "request":
		header, ok := strings.CutPrefix(rest, "headers.")
		if !ok || header == "" {
			return nil, false
		}
		v, ok := c.Headers[strings.ToLower(header)]
		return v, ok
	}
	return nil, false
}

func (c *Context) geoAttribute(field string) (any, bool) {
	var v string
	switch field {
	case "ip":
		v = c.Geo.IP
	case "country":
		v = c.Geo.Country
	case "region":
		v = c.Geo.Region
	case "city":
		v = c.Geo.City
	case "timezone":
		v = c.Geo.Timezone
	default:
		return nil, false
	}
	if v == "" {
		return nil, false
	}
	return v, true
}

// lookup walks a dotted path through nested attribute maps.
func lookup(attrs map[string]any, path string) (any, bool) {
	current := any(attrs)
	for path != "" {
		key, rest, _ := strings.Cut(path, ".")
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
		path = rest
	}
	return current, true
}
