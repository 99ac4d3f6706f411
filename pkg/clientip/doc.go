// Package clientip extracts the originating client IP from HTTP
// requests behind CDNs and reverse proxies, validating every candidate
// so spoofed garbage never propagates into evaluation contexts.
package clientip
