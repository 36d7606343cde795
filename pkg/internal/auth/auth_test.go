package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		email    string
		username string
		password string
		ok       bool
	}{
		{"user@example.com", "tester", "secret123", true},
		{"bad", "tester", "secret123", false},
		{"user@example.com", "x", "secret123", false},
		{"user@example.com", "Has Spaces", "secret123", false},
		{"user@example.com", "tester", "123", false},
	}
	for i, c := range cases {
		err := ValidateCredentials(c.email, c.username, c.password)
		if c.ok && err != nil {
			t.Fatalf("case %d expected ok, got err: %v", i, err)
		}
		if !c.ok {
			if err == nil {
				t.Fatalf("case %d expected error, got nil", i)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("case %d expected an invalid input error, got %v", i, err)
			}
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if ok, err := IsPasswordMatch(hash, "super-secret"); err != nil || !ok {
		t.Fatalf("check failed: %v", err)
	}
	if ok, err := IsPasswordMatch(hash, "wrong"); err != nil || ok {
		t.Fatalf("expected a mismatch for a wrong password, got ok=%v err=%v", ok, err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	service := NewService(nil, "a-test-secret", time.Hour, time.Hour)

	token, err := service.signToken("session-1", 42, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	claims, err := service.parseToken(token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.ID != "session-1" || claims.AccountID != 42 {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenRejected(t *testing.T) {
	service := NewService(nil, "a-test-secret", time.Hour, time.Hour)
	other := NewService(nil, "another-secret", time.Hour, time.Hour)

	expired, _ := service.signToken("session-1", 1, time.Now().Add(-time.Minute))
	forged, _ := other.signToken("session-1", 1, time.Now().Add(time.Hour))

	for name, token := range map[string]string{
		"expired": expired,
		"forged":  forged,
		"garbage": "not.a.token",
		"empty":   "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.parseToken(token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Someone@Example.COM "); got != strings.ToLower("someone@example.com") {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}
