// Package token signs and verifies the bearer tokens handed out at login.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired is returned for a well-formed, correctly signed token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers malformed tokens, bad signatures and unusable claims.
	ErrInvalid = errors.New("token invalid")
)

// MinSecretLength is the shortest accepted HMAC-SHA256 signing key.
const MinSecretLength = 32

// Claims is the token payload: the subject is the user ID.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalid, c.Subject)
	}
	return id, nil
}

// Issuer mints and verifies HS256 tokens with a process-wide secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. An empty or short secret is a configuration
// error; callers should refuse to start.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the validity window of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a token for the given user valid for the configured TTL.
func (i *Issuer) Issue(userID int64, email, name string) (string, error) {
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(userID, 10),
		},
	}
	return i.Sign(claims, i.now().Add(i.ttl))
}

// Sign stamps issuer, issued-at, token ID and expiry onto claims and signs them.
func (i *Issuer) Sign(claims Claims, expiresAt time.Time) (string, error) {
	now := i.now().UTC()
	claims.Issuer = i.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	claims.ID = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the claims.
// The error wraps ErrExpired or ErrInvalid.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !token.Valid {
		return nil, ErrInvalid
	}

	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalid)
	}

	return claims, nil
}
