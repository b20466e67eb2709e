// Package authtest runs a throwaway OpenID Connect key endpoint and mints ID
// tokens for it, for tests of identity-provider login.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/feedback-portal/internal/auth"
	"github.com/spec-kit/feedback-portal/internal/config"
)

const (
	Issuer   = "https://login.example.test/tenant/v2.0"
	ClientID = "feedback-portal-client"
	keyID    = "test-key"
)

// IdentityProvider serves a JWKS document for one signing key.
type IdentityProvider struct {
	server *httptest.Server
	key    *rsa.PrivateKey
}

// NewIdentityProvider starts the key endpoint; it is closed on test cleanup.
func NewIdentityProvider(t testing.TB) *IdentityProvider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	doc, err := json.Marshal(map[string]any{
		"keys": []map[string]string{{
			"kid": keyID,
			"kty": "RSA",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	})
	if err != nil {
		t.Fatalf("encode key set: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(doc)
	}))
	t.Cleanup(server.Close)
	return &IdentityProvider{server: server, key: key}
}

// Config points the portal at this provider.
func (p *IdentityProvider) Config() config.IdentityProviderConfig {
	return config.IdentityProviderConfig{
		ClientID: ClientID,
		Issuer:   Issuer,
		JWKSURL:  p.server.URL,
	}
}

// Claims returns valid claims for email, expiring in an hour.
func (p *IdentityProvider) Claims(email string) auth.IdentityClaims {
	now := time.Now()
	return auth.IdentityClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "user-" + email,
			Audience:  jwt.ClaimStrings{ClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

// Sign signs claims with the provider's key.
func (p *IdentityProvider) Sign(t testing.TB, claims auth.IdentityClaims) string {
	t.Helper()
	return SignWith(t, p.key, claims)
}

// IDToken returns a valid ID token for email.
func (p *IdentityProvider) IDToken(t testing.TB, email string) string {
	t.Helper()
	return p.Sign(t, p.Claims(email))
}

// SignWith signs claims RS256 with key under the provider's key id.
func SignWith(t testing.TB, key *rsa.PrivateKey, claims auth.IdentityClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = keyID
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
