package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every token validation failure: absent, malformed,
// wrongly signed, or expired. Callers must not distinguish between these
// cases in responses; a single category avoids leaking an oracle.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenRecord is the validated claims structure handed to the rest of the
// service. It is a transient, read-only value per request; nothing below the
// verifier re-checks signatures or expiry.
type TokenRecord struct {
	// Subject identifies the authenticated user.
	Subject string
	// Roles is a bitmask where each bit grants one capability.
	Roles uint32
	// NotAfter is the token expiry instant, already enforced by Verify.
	NotAfter time.Time
}

// Claims is the JWT claim set carried by ras-chat bearer tokens.
type Claims struct {
	Roles uint32 `json:"roles"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens and extracts TokenRecords.
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

// NewVerifier constructs a Verifier from a shared secret. The ttl applies to
// tokens issued through Issue; verification trusts the exp claim.
func NewVerifier(secret string, ttl time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), ttl: ttl}
}

// Verify parses and validates a bearer token, returning the TokenRecord.
// Any failure, including expiry, maps to ErrInvalidToken.
func (v *Verifier) Verify(tokenString string) (TokenRecord, error) {
	if tokenString == "" {
		return TokenRecord{}, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return TokenRecord{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return TokenRecord{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return TokenRecord{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return TokenRecord{
		Subject:  claims.Subject,
		Roles:    claims.Roles,
		NotAfter: claims.ExpiresAt.Time,
	}, nil
}

// Issue mints a signed token for the given subject and role bitmask. Used by
// the CLI and by tests; production deployments may instead point clients at
// an external issuer sharing the same secret.
func (v *Verifier) Issue(subject string, roles uint32) (string, error) {
	return v.IssueWithTTL(subject, roles, v.ttl)
}

// IssueWithTTL mints a token with an explicit lifetime.
func (v *Verifier) IssueWithTTL(subject string, roles uint32, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
