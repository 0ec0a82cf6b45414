// Package token issues and verifies the signed identity tokens handed out at login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/highscores-go/internal/dependencies/clock"
)

// DefaultSecret is the development signing secret. Production deployments override it.
const DefaultSecret = "123456"

// Errors
var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrEmptySecret  = errors.New("token secret must not be empty")
)

// Claims is the payload carried by an identity token
type Claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

// Config holds configuration for the token service
type Config struct {
	Secret string
	Issuer string
	// Expiry is the token lifetime. Zero issues tokens that never expire.
	Expiry time.Duration
}

// DefaultConfig returns default token configuration
func DefaultConfig() Config {
	return Config{
		Secret: DefaultSecret,
		Issuer: "highscores",
	}
}

// Service signs and verifies HS256 tokens with a single shared secret
type Service struct {
	secret []byte
	issuer string
	expiry time.Duration
	clock  clock.Clock
}

// New creates a new token Service
func New(clk clock.Clock, cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrEmptySecret
	}
	if cfg.Expiry < 0 {
		return nil, fmt.Errorf("token expiry must not be negative: %s", cfg.Expiry)
	}
	return &Service{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expiry: cfg.Expiry,
		clock:  clk,
	}, nil
}

// Issue produces a signed token whose subject is handle
func (s *Service) Issue(handle string) (string, error) {
	now := s.clock.Now()

	claims := Claims{
		User: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  handle,
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiry))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns its claims.
// Every failure is reported as ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.User == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
