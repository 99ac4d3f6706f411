package httpapi

import (
	"net/http"
	"strings"

	"github.com/flaggly/flaggly/engine"
	"github.com/flaggly/flaggly/pkg/clientip"
	"github.com/flaggly/flaggly/store"
)

const (
	headerAppID = "x-app-id"
	headerEnvID = "x-env-id"

	defaultAppID = "default"
	defaultEnvID = "production"
)

// tenantStore resolves the per-request tenant from the x-app-id and
// x-env-id headers, falling back to the default tenant.
func (a *api) tenantStore(r *http.Request) *store.Store {
	app := r.Header.Get(headerAppID)
	if app == "" {
		app = defaultAppID
	}
	env := r.Header.Get(headerEnvID)
	if env == "" {
		env = defaultEnvID
	}
	return store.New(a.kv, app, env)
}

// evalRequest is the client-supplied part of the evaluation context.
type evalRequest struct {
	ID   string         `json:"id"`
	User map[string]any `json:"user"`
	Page struct {
		URL string `json:"url"`
	} `json:"page"`
}

// buildContext merges the request body with attributes derived from the
// transport: client IP, CDN geo headers, and the raw request headers.
func buildContext(r *http.Request, req evalRequest) engine.Context {
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			headers[strings.ToLower(name)] = values[0]
		}
	}

	return engine.Context{
		SubjectID: req.ID,
		User:      req.User,
		PageURL:   req.Page.URL,
		Geo: engine.Geo{
			IP:       clientip.GetIP(r),
			Country:  geoHeader(r, "cf-ipcountry", "x-geo-country"),
			Region:   geoHeader(r, "cf-region-code", "x-geo-region"),
			City:     geoHeader(r, "cf-ipcity", "x-geo-city"),
			Timezone: geoHeader(r, "cf-timezone", "x-geo-timezone"),
		},
		Headers: headers,
	}
}

func geoHeader(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.Header.Get(name); v != "" {
			return v
		}
	}
	return ""
}
