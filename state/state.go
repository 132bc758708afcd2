// Package state issues and verifies the OAuth state parameter.
//
// The state is a short-lived HS256 JWT, so nothing is stored between the
// authorize redirect and the callback. A state can be replayed until it
// expires.
package state

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-decap-oauth/internal/errors"
)

const issuer = "decap-oauth"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims carried inside the state token.
type Claims struct {
	Provider string `json:"provider"`
	Origin   string `json:"origin,omitempty"`
	jwtlib.RegisteredClaims
}

// Signer creates and checks state tokens with a shared HMAC key.
type Signer struct {
	key []byte
	ttl time.Duration
}

func NewSigner(key []byte, ttl time.Duration) (*Signer, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("[state NewSigner] %w: empty signing key", apperrors.ErrInvalidConfig)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("[state NewSigner] %w: ttl must be positive", apperrors.ErrInvalidConfig)
	}
	return &Signer{key: key, ttl: ttl}, nil
}

// Issue returns a signed state bound to provider and the CMS origin, which may be empty.
func (s *Signer) Issue(provider, origin string) (string, error) {
	now := NowTimeFunc()
	claims := Claims{
		Provider: provider,
		Origin:   origin,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			ID:        uuid.New().String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("[state Issue] failed to sign state: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and provider of a state token.
func (s *Signer) Verify(token, provider string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(token, claims,
		func(*jwtlib.Token) (interface{}, error) { return s.key, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidState, err)
	}
	if claims.Provider != provider {
		return nil, fmt.Errorf("%w: issued for provider %q", apperrors.ErrInvalidState, claims.Provider)
	}
	return claims, nil
}
