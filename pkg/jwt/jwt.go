package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Header fields required by RFC 7519; only HMAC-SHA256 is supported.
const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// StandardClaims are the registered claims of RFC 7519 section 4.1.
// Temporal claims are Unix timestamps; zero values are treated as unset.
type StandardClaims struct {
	ID        string `json:"jti,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid checks the temporal claims against the current time.
func (c StandardClaims) Valid() error {
	now := time.Now().Unix()
	if c.ExpiresAt > 0 && now > c.ExpiresAt {
		return ErrExpiredToken
	}
	if c.NotBefore > 0 && now < c.NotBefore {
		return ErrInvalidToken
	}
	return nil
}

// Service signs and verifies tokens with HMAC-SHA256. The signing key
// never leaves memory.
type Service struct {
	signingKey []byte
}

// New returns a Service; the key should be at least 32 bytes.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &Service{signingKey: signingKey}, nil
}

// NewFromString is a convenience wrapper for string-based configuration.
func NewFromString(signingKey string) (*Service, error) {
	return New([]byte(signingKey))
}

// Generate signs the claims into a compact token.
func (s *Service) Generate(claims any) (string, error) {
	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	enc := base64.RawURLEncoding
	signingInput := enc.EncodeToString(headerJSON) + "." + enc.EncodeToString(claimsJSON)
	return signingInput + "." + enc.EncodeToString(s.sign(signingInput)), nil
}

// Parse verifies the token signature and decodes its claims into dst.
// When dst implements Valid() error (as StandardClaims does), temporal
// validation runs after decoding.
func (s *Service) Parse(token string, dst any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	enc := base64.RawURLEncoding
	headerJSON, err := enc.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return ErrInvalidToken
	}
	if h.Type != headerType || h.Algorithm != headerAlgorithm {
		return ErrUnsupportedAlgorithm
	}

	signature, err := enc.DecodeString(parts[2])
	if err != nil {
		return ErrInvalidToken
	}
	expected := s.sign(parts[0] + "." + parts[1])
	if subtle.ConstantTimeCompare(signature, expected) != 1 {
		return ErrInvalidSignature
	}

	claimsJSON, err := enc.DecodeString(parts[1])
	if err != nil {
		return ErrInvalidToken
	}
	if err := json.Unmarshal(claimsJSON, dst); err != nil {
		return ErrInvalidToken
	}

	if validator, ok := dst.(interface{ Valid() error }); ok {
		return validator.Valid()
	}
	return nil
}

func (s *Service) sign(input string) []byte {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}
