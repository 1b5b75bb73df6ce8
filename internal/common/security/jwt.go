package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const (
	claimSubject = "sub"
	claimRole    = "role"
	roleAdmin    = "admin"
)

// Identity is what a verified access token says about its bearer.
type Identity struct {
	ID              string `json:"id"`
	Role            string `json:"role"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsAdmin         bool   `json:"isAdmin"`
}

func NewIdentity(id, role string) Identity {
	return Identity{ID: id, Role: role, IsAuthenticated: true, IsAdmin: role == roleAdmin}
}

// TokenManager issues and verifies HS256 access tokens. Tokens are not stored
// server side, so they stay valid until they expire.
type TokenManager struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

// WithClock returns a copy that stamps iat/exp from now. Verification always
// uses the wall clock.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

// JWTAuth exposes the underlying verifier for jwtauth middleware.
func (m *TokenManager) JWTAuth() *jwtauth.JWTAuth { return m.auth }

func (m *TokenManager) TTL() time.Duration { return m.ttl }

func (m *TokenManager) GenerateToken(userID, role string) (string, error) {
	issued := m.now()
	claims := jwt.MapClaims{
		claimSubject: userID,
		claimRole:    role,
		"iat":        issued.Unix(),
		"exp":        issued.Add(m.ttl).Unix(),
	}
	_, tokenString, err := m.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return tokenString, nil
}

// Parse verifies signature and expiry and decodes the identity.
func (m *TokenManager) Parse(tokenString string) (Identity, error) {
	token, err := jwtauth.VerifyToken(m.auth, tokenString)
	if err != nil {
		return Identity{}, err
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Identity{}, err
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims reads the subject and role claims.
func IdentityFromClaims(claims jwt.MapClaims) (Identity, error) {
	id, err := GetUserIDFromClaims(claims)
	if err != nil {
		return Identity{}, err
	}
	role, err := GetUserRoleFromClaims(claims)
	if err != nil {
		return Identity{}, err
	}
	return NewIdentity(id, role), nil
}

func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims[claimSubject].(string)
	if !ok || id == "" {
		return "", errors.New("sub claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims[claimRole].(string)
	if !ok || role == "" {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
