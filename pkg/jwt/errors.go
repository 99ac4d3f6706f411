package jwt

import "errors"

var (
	ErrMissingSigningKey    = errors.New("missing signing key")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidSignature     = errors.New("invalid token signature")
	ErrExpiredToken         = errors.New("token expired")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)
