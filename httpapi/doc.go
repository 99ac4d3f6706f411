// Package httpapi exposes the service over HTTP.
//
// Two surfaces share one router: the evaluation API under /api,
// authenticated with a shared bearer key, and the management API under
// /admin, authenticated with a signed admin token. The tenant is picked
// per request from the x-app-id and x-env-id headers; requests without
// them land on the default tenant.
package httpapi
