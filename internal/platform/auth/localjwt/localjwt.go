// Package localjwt issues and verifies the HS256 tokens handed out by register and login.
package localjwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/platform/auth"
	"github.com/alumni-network/alumni-api/internal/ports/out/clock"
)

var _ auth.Verifier = (*Authority)(nil)

// Authority signs tokens whose `sub` is the user id.
type Authority struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clock.Clock
	parser *jwt.Parser
}

func New(secret, issuer string, ttl time.Duration, clk clock.Clock) (*Authority, error) {
	if secret == "" {
		return nil, errors.New("localjwt: empty secret")
	}
	if ttl <= 0 {
		return nil, errors.New("localjwt: ttl must be positive")
	}
	return &Authority{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		clock:  clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(clk.Now),
		),
	}, nil
}

// Issue returns a signed token for user and its expiry.
func (a *Authority) Issue(user domain.UserID) (string, time.Time, error) {
	now := a.clock.Now()
	exp := now.Add(a.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    a.issuer,
		Subject:   string(user),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (a *Authority) Verify(_ context.Context, token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := a.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || claims.Subject == "" {
		return "", auth.ErrUnauthorized
	}
	return claims.Subject, nil
}
