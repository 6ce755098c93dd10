package localjwt

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/alumni-network/alumni-api/internal/adapters/memory/clock"
	"github.com/alumni-network/alumni-api/internal/platform/auth"
)

func TestAuthority_IssueThenVerify(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(1700000000, 0))
	a, err := New("top-secret", "alumni-api", time.Hour, clk)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tok, exp, err := a.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(clk.Now().Add(time.Hour)) {
		t.Fatalf("exp=%v want %v", exp, clk.Now().Add(time.Hour))
	}

	sub, err := a.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("sub=%q want user-1", sub)
	}

	clk.Advance(2 * time.Hour)
	if _, err := a.Verify(context.Background(), tok); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expired err=%v want ErrUnauthorized", err)
	}
}

func TestAuthority_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(1700000000, 0))
	a, _ := New("top-secret", "alumni-api", time.Hour, clk)
	other, _ := New("other-secret", "alumni-api", time.Hour, clk)
	otherIssuer, _ := New("top-secret", "someone-else", time.Hour, clk)

	for name, issuer := range map[string]*Authority{"secret": other, "issuer": otherIssuer} {
		tok, _, err := issuer.Issue("user-1")
		if err != nil {
			t.Fatalf("%s Issue: %v", name, err)
		}
		if _, err := a.Verify(context.Background(), tok); err == nil {
			t.Fatalf("%s: expected rejection", name)
		}
	}

	if _, err := a.Verify(context.Background(), "not.a.token"); err == nil {
		t.Fatalf("expected rejection of garbage")
	}
}

func TestNew_Validates(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(0, 0))
	if _, err := New("", "iss", time.Hour, clk); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := New("s", "iss", 0, clk); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}
