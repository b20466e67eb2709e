package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// KeySet resolves the public key an identity provider signed a token with.
type KeySet interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// IdentityClaims is the subset of an OpenID Connect ID token the portal reads.
type IdentityClaims struct {
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	jwt.RegisteredClaims
}

// IdentityProviderVerifier checks ID tokens issued by the external identity
// provider: RS256 signature against the provider's published keys, issuer,
// audience (the portal's client id) and expiry.
type IdentityProviderVerifier struct {
	keys   KeySet
	parser *jwt.Parser
}

// NewIdentityProviderVerifier builds a verifier for tokens minted by issuer
// for the given client id.
func NewIdentityProviderVerifier(keys KeySet, issuer, clientID string) *IdentityProviderVerifier {
	return &IdentityProviderVerifier{
		keys: keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(clientID),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// VerifyEmail validates raw and returns the lower-cased email it asserts.
func (v *IdentityProviderVerifier) VerifyEmail(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.NewUnauthorized("missing identity token")
	}
	claims := &IdentityClaims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no key id")
		}
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.NewUnauthorized("identity token expired")
		}
		return "", apperrors.NewUnauthorized("invalid identity token")
	}

	email := claims.Email
	if email == "" {
		email = claims.PreferredUsername
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperrors.NewUnauthorized("identity token carries no email")
	}
	return email, nil
}

const (
	jwksCacheTTL     = time.Hour
	jwksMinRefresh   = time.Minute
	jwksFetchTimeout = 5 * time.Second
)

// JWKSKeySet fetches and caches RSA signing keys from a JSON Web Key Set URL.
// An unknown key id triggers a refetch, at most once per minute.
type JWKSKeySet struct {
	url string
	now func() time.Time

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewJWKSKeySet returns a key set backed by url.
func NewJWKSKeySet(url string) *JWKSKeySet {
	return &JWKSKeySet{url: url, now: time.Now}
}

// Key implements KeySet.
func (s *JWKSKeySet) Key(_ context.Context, kid string) (*rsa.PublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	age := s.now().Sub(s.fetchedAt)
	if key, ok := s.keys[kid]; ok && age < jwksCacheTTL {
		return key, nil
	}
	if s.keys == nil || age >= jwksMinRefresh {
		keys, err := fetchJWKS(s.url)
		if err != nil {
			return nil, err
		}
		s.keys = keys
		s.fetchedAt = s.now()
	}
	key, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}
	return key, nil
}

type jsonWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func fetchJWKS(url string) (map[string]*rsa.PublicKey, error) {
	agent := fiber.Get(url).Timeout(jwksFetchTimeout)
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("fetch signing keys: %w", errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("fetch signing keys: status %d", status)
	}
	return ParseJWKS(body)
}

// ParseJWKS decodes the RSA signature keys of a JSON Web Key Set document.
func ParseJWKS(data []byte) (map[string]*rsa.PublicKey, error) {
	var doc struct {
		Keys []jsonWebKey `json:"keys"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode signing keys: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") || k.Kid == "" {
			continue
		}
		n, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, fmt.Errorf("key %q modulus: %w", k.Kid, err)
		}
		e, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, fmt.Errorf("key %q exponent: %w", k.Kid, err)
		}
		keys[k.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: int(new(big.Int).SetBytes(e).Int64()),
		}
	}
	if len(keys) == 0 {
		return nil, errors.New("signing key set has no RSA keys")
	}
	return keys, nil
}
