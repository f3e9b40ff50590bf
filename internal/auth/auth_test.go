package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash should not equal the password")
	}

	if err := CheckPassword(hash, "password123"); err != nil {
		t.Errorf("CheckPassword() with the right password failed: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() error = %v, expected ErrInvalidCredentials", err)
	}
	if err := CheckPassword("", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty hash error = %v, expected ErrInvalidCredentials", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute)

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	sub, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if sub != "user-1" {
		t.Errorf("subject = %q, expected user-1", sub)
	}
}

func TestTokenRejected(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute)
	token, _ := issuer.Issue("user-1")

	expired := NewIssuer("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(time.Hour) }

	tests := []struct {
		name   string
		issuer *Issuer
		token  string
	}{
		{"empty", issuer, ""},
		{"garbage", issuer, "not-a-token"},
		{"wrong secret", NewIssuer("other-secret", time.Minute), token},
		{"expired", expired, token},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.issuer.Verify(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, expected ErrInvalidToken", err)
			}
		})
	}
}

func TestDefaultTTL(t *testing.T) {
	if NewIssuer("s", 0).ttl != DefaultTokenTTL {
		t.Error("non-positive ttl should fall back to the default")
	}
}
