package security

import (
	"errors"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	token, err := tm.GenerateToken("user-1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	id, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Identity{ID: "user-1", Role: "admin", IsAuthenticated: true, IsAdmin: true}
	if id != want {
		t.Errorf("identity = %+v, want %+v", id, want)
	}
}

func TestParseRejectsOtherSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("one"), time.Hour)
	verifier := NewTokenManager([]byte("two"), time.Hour)

	token, err := issuer.GenerateToken("user-1", "user")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.Parse(token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	tm := NewTokenManager([]byte("secret"), time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	token, err := tm.GenerateToken("user-1", "user")
	if err != nil {
		t.Fatal(err)
	}
	_, err = tm.Parse(token)
	if !errors.Is(err, jwtauth.ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager([]byte("secret"), time.Hour)
	if _, err := tm.Parse("not.a.token"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestIdentityFromClaimsMissingRole(t *testing.T) {
	if _, err := IdentityFromClaims(map[string]interface{}{"sub": "x"}); err == nil {
		t.Fatal("expected an error for a token without a role")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "pw1" {
		t.Fatal("password stored in clear")
	}
	if !CheckPasswordHash("pw1", hash) {
		t.Error("matching password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
