package jwtverifier_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	memclock "github.com/alumni-network/alumni-api/internal/adapters/memory/clock"
	"github.com/alumni-network/alumni-api/internal/platform/auth"
	"github.com/alumni-network/alumni-api/internal/platform/auth/jwkstest"
	"github.com/alumni-network/alumni-api/internal/platform/auth/jwtverifier"
	"github.com/alumni-network/alumni-api/internal/platform/config"
)

func testConfig(jwksURL string, refresh time.Duration) config.JWTConfig {
	return config.JWTConfig{
		Issuer:                 "test-iss",
		Audience:               "test-aud",
		JWKSURL:                jwksURL,
		ClockSkew:              0,
		JWKSRefreshInterval:    refresh,
		JWKSMinRefreshInterval: 0,
		HTTPTimeout:            2 * time.Second,
	}
}

func newVerifier(t *testing.T, refresh time.Duration) (*jwtverifier.Verifier, config.JWTConfig, *memclock.ManualClock, func([]jwkstest.Keypair)) {
	t.Helper()
	srv, setKeys := jwkstest.NewRotatingJWKSServer()
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL, refresh)
	clk := memclock.NewManualClock(time.Unix(1700000000, 0))
	return jwtverifier.NewWithOptions(cfg, nil, clk), cfg, clk, setKeys
}

func TestVerifier_Verify_ValidToken(t *testing.T) {
	t.Parallel()

	v, cfg, clk, setKeys := newVerifier(t, 10*time.Minute)
	kp, err := jwkstest.GenerateRSAKeypair("kid-1")
	if err != nil {
		t.Fatalf("GenerateRSAKeypair: %v", err)
	}
	setKeys([]jwkstest.Keypair{kp})

	tok, err := jwkstest.MintRS256JWT(kp, cfg.Issuer, cfg.Audience, "user-123", clk.Now(), 5*time.Minute, nil)
	if err != nil {
		t.Fatalf("MintRS256JWT: %v", err)
	}
	sub, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user-123" {
		t.Fatalf("sub=%q want user-123", sub)
	}

	// aud may also be an array.
	tok, _ = jwkstest.MintRS256JWT(kp, cfg.Issuer, []string{"other", cfg.Audience}, "user-123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), tok); err != nil {
		t.Fatalf("Verify array aud: %v", err)
	}
}

func TestVerifier_Verify_ExpiredOrNotYetValid(t *testing.T) {
	t.Parallel()

	v, cfg, clk, setKeys := newVerifier(t, 10*time.Minute)
	kp, _ := jwkstest.GenerateRSAKeypair("kid-1")
	setKeys([]jwkstest.Keypair{kp})

	expired, _ := jwkstest.MintRS256JWT(kp, cfg.Issuer, cfg.Audience, "user-123", clk.Now(), -1*time.Minute, nil)
	if _, err := v.Verify(context.Background(), expired); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expired err=%v want ErrUnauthorized", err)
	}

	nbf := 2 * time.Minute
	early, _ := jwkstest.MintRS256JWT(kp, cfg.Issuer, cfg.Audience, "user-123", clk.Now(), 5*time.Minute, &nbf)
	if _, err := v.Verify(context.Background(), early); err == nil {
		t.Fatalf("expected error for nbf in the future")
	}
}

func TestVerifier_Verify_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	v, cfg, clk, setKeys := newVerifier(t, 10*time.Minute)
	kp, _ := jwkstest.GenerateRSAKeypair("kid-1")
	setKeys([]jwkstest.Keypair{kp})

	wrongIss, _ := jwkstest.MintRS256JWT(kp, "wrong-iss", cfg.Audience, "user-123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), wrongIss); err == nil {
		t.Fatalf("expected error for wrong iss")
	}

	wrongAud, _ := jwkstest.MintRS256JWT(kp, cfg.Issuer, "wrong-aud", "user-123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), wrongAud); err == nil {
		t.Fatalf("expected error for wrong aud")
	}
}

func TestVerifier_Verify_BadSignatureOrAlgorithm(t *testing.T) {
	t.Parallel()

	v, cfg, clk, setKeys := newVerifier(t, 10*time.Minute)
	kp, _ := jwkstest.GenerateRSAKeypair("kid-1")
	setKeys([]jwkstest.Keypair{kp})

	// Same kid, different private key.
	other, _ := rsa.GenerateKey(rand.Reader, 2048)
	forged, _ := jwkstest.MintRS256JWT(jwkstest.Keypair{Kid: "kid-1", Private: other}, cfg.Issuer, cfg.Audience, "user-123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), forged); err == nil {
		t.Fatalf("expected error for forged signature")
	}

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": cfg.Issuer, "aud": cfg.Audience, "sub": "user-123", "exp": clk.Now().Add(time.Minute).Unix(),
	})
	hs.Header["kid"] = "kid-1"
	hsTok, err := hs.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := v.Verify(context.Background(), hsTok); err == nil {
		t.Fatalf("expected error for HS256 token")
	}
}

func TestVerifier_Verify_JWKSRotation_OldKidRejected_NewKidAccepted(t *testing.T) {
	t.Parallel()

	v, cfg, clk, setKeys := newVerifier(t, time.Second)
	k1, _ := jwkstest.GenerateRSAKeypair("kid-1")
	k2, _ := jwkstest.GenerateRSAKeypair("kid-2")
	setKeys([]jwkstest.Keypair{k1})

	tok1, _ := jwkstest.MintRS256JWT(k1, cfg.Issuer, cfg.Audience, "user-123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), tok1); err != nil {
		t.Fatalf("expected tok1 to verify: %v", err)
	}

	setKeys([]jwkstest.Keypair{k2})
	clk.Advance(2 * time.Second) // next Verify refreshes on interval

	if _, err := v.Verify(context.Background(), tok1); err == nil {
		t.Fatalf("expected tok1 to be rejected after rotation")
	}

	tok2, _ := jwkstest.MintRS256JWT(k2, cfg.Issuer, cfg.Audience, "user-456", clk.Now(), 5*time.Minute, nil)
	sub, err := v.Verify(context.Background(), tok2)
	if err != nil {
		t.Fatalf("expected tok2 to verify: %v", err)
	}
	if sub != "user-456" {
		t.Fatalf("sub=%q want user-456", sub)
	}
}
