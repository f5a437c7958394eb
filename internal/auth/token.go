package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stashkeep/stashkeep/internal/model"
)

// Token verification failures. The two kinds are distinguishable so callers
// can tell "log in again" apart from "malformed credential".
var (
	// ErrTokenInvalid indicates a bad signature or malformed token.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired indicates a well-signed token whose expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the JWT claims carried by an issued token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Issuer creates and verifies signed identity tokens.
// The signing secret is loaded once at startup and never rotated during
// a process lifetime.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer with the given signing secret and token TTL.
// An empty secret is refused: signing with a default secret would make
// every token forgeable. A zero TTL falls back to one hour.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token signing secret must not be empty")
	}
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed token for the given identity, expiring after the
// configured TTL.
func (i *Issuer) Issue(userID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token, returning the identity it encodes.
// Returns ErrTokenExpired for a well-signed token past its expiry and
// ErrTokenInvalid for everything else.
func (i *Issuer) Verify(tokenString string) (*model.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return &model.Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
	}, nil
}
