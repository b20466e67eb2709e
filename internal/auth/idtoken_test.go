package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/feedback-portal/internal/auth"
	"github.com/spec-kit/feedback-portal/internal/auth/authtest"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

func newVerifier(idp *authtest.IdentityProvider) *auth.IdentityProviderVerifier {
	cfg := idp.Config()
	return auth.NewIdentityProviderVerifier(auth.NewJWKSKeySet(cfg.JWKSURL), cfg.Issuer, cfg.ClientID)
}

func TestIdentityProviderVerifierAcceptsSignedToken(t *testing.T) {
	idp := authtest.NewIdentityProvider(t)
	v := newVerifier(idp)

	email, err := v.VerifyEmail(context.Background(), idp.IDToken(t, "Dean@AUI.ma"))
	require.NoError(t, err)
	assert.Equal(t, "dean@aui.ma", email)

	claims := idp.Claims("")
	claims.PreferredUsername = "it@aui.ma"
	email, err = v.VerifyEmail(context.Background(), idp.Sign(t, claims))
	require.NoError(t, err)
	assert.Equal(t, "it@aui.ma", email)
}

func TestIdentityProviderVerifierRejects(t *testing.T) {
	idp := authtest.NewIdentityProvider(t)
	v := newVerifier(idp)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	wrongIssuer := idp.Claims("dean@aui.ma")
	wrongIssuer.Issuer = "https://evil.example"
	wrongAudience := idp.Claims("dean@aui.ma")
	wrongAudience.Audience = jwt.ClaimStrings{"another-app"}
	expired := idp.Claims("dean@aui.ma")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noExpiry := idp.Claims("dean@aui.ma")
	noExpiry.ExpiresAt = nil
	noEmail := idp.Claims("")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, idp.Claims("dean@aui.ma")).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	symmetric := jwt.NewWithClaims(jwt.SigningMethodHS256, idp.Claims("dean@aui.ma"))
	symmetric.Header["kid"] = "test-key"
	hmacSigned, err := symmetric.SignedString([]byte("guessable"))
	require.NoError(t, err)

	tests := []struct {
		description string
		token       string
	}{
		{"empty", ""},
		{"bare email", "dean@aui.ma"},
		{"unsigned", unsigned},
		{"hmac signed", hmacSigned},
		{"forged with another key", authtest.SignWith(t, otherKey, idp.Claims("dean@aui.ma"))},
		{"wrong issuer", idp.Sign(t, wrongIssuer)},
		{"wrong audience", idp.Sign(t, wrongAudience)},
		{"expired", idp.Sign(t, expired)},
		{"no expiry", idp.Sign(t, noExpiry)},
		{"no email", idp.Sign(t, noEmail)},
	}
	for _, test := range tests {
		_, err := v.VerifyEmail(context.Background(), test.token)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized), test.description)
	}
}

func TestParseJWKS(t *testing.T) {
	_, err := auth.ParseJWKS([]byte(`{"keys":[{"kid":"enc","kty":"RSA","use":"enc","n":"AQAB","e":"AQAB"}]}`))
	assert.Error(t, err, "encryption keys are skipped")

	keys, err := auth.ParseJWKS([]byte(`{"keys":[{"kid":"k1","kty":"RSA","n":"AQAB","e":"AQAB"},{"kid":"ec","kty":"EC"}]}`))
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, 65537, keys["k1"].E)

	_, err = auth.ParseJWKS([]byte(`not json`))
	assert.Error(t, err)
}

func TestJWKSKeySetUnreachable(t *testing.T) {
	keys := auth.NewJWKSKeySet("http://127.0.0.1:1/keys")
	_, err := keys.Key(context.Background(), "k1")
	assert.Error(t, err)
}
