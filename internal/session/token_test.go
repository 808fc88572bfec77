package session

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("session-1")
	if err != nil {
		t.Fatalf("Error issuing token: %v", err)
	}

	id, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Error parsing token: %v", err)
	}
	if id != "session-1" {
		t.Errorf("Expected session-1, got %q", id)
	}
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)
	expired := NewTokenIssuer("test-secret", -time.Hour)

	foreign, _ := other.Issue("session-1")
	stale, _ := expired.Issue("session-1")
	unnamed, _ := issuer.Issue("")

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      stale,
		"no subject":   unnamed,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
