package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "driveros-api"
	tokenAudience = "driveros-dashboard"

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Kind separates short lived access tokens from refresh tokens. A token
// of one kind is never accepted where the other is expected.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongKind    = errors.New("wrong token kind")
	ErrUnknownRole  = errors.New("token carries an unknown role")
	ErrEmptySecret  = errors.New("jwt secret cannot be empty")
)

// Claims identify the operator by the standard subject claim.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Kind  Kind   `json:"kind"`
	jwt.RegisteredClaims
}

func (c *Claims) Operator() Operator {
	return Operator{ID: c.Subject, Email: c.Email, Role: c.Role}
}

type TokenPair struct {
	Access  string
	Refresh string
}

// Issuer signs and verifies operator tokens. Refresh tokens fall back to
// the access secret when no separate one is configured; the kind claim
// still keeps the two apart.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewIssuer(accessSecret, refreshSecret string) *Issuer {
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

func (i *Issuer) secret(kind Kind) []byte {
	if kind == KindRefresh {
		return i.refreshSecret
	}
	return i.accessSecret
}

func (i *Issuer) sign(op Operator, kind Kind, ttl time.Duration) (string, error) {
	secret := i.secret(kind)
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	if op.ID == "" {
		return "", fmt.Errorf("%w: operator id is empty", ErrInvalidToken)
	}
	if !ValidRole(op.Role) {
		return "", ErrUnknownRole
	}

	now := i.now()
	claims := &Claims{
		Email: op.Email,
		Role:  op.Role,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   op.ID,
			Issuer:    tokenIssuer,
			Audience:  []string{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *Issuer) Access(op Operator) (string, error) {
	return i.sign(op, KindAccess, AccessTokenTTL)
}

func (i *Issuer) Pair(op Operator) (TokenPair, error) {
	access, err := i.Access(op)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(op, KindRefresh, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Parse verifies token as a token of the given kind and returns its claims.
func (i *Issuer) Parse(token string, kind Kind) (*Claims, error) {
	secret := i.secret(kind)
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	if !ValidRole(claims.Role) {
		return nil, ErrUnknownRole
	}
	return claims, nil
}
