// Package jwt implements HMAC-SHA256 JSON Web Tokens for admin
// authentication: a small signing service plus HTTP middleware with
// optional issuer pinning. Token issuance belongs to the operator's
// tooling; this package only verifies.
package jwt
