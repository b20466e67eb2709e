package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/feedback-portal/internal/auth"
	"github.com/spec-kit/feedback-portal/internal/config"
	"github.com/spec-kit/feedback-portal/internal/domain"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// AuthService is the admin session gate. It checks the single configured
// admin identity and issues signed, time-boxed credentials.
type AuthService struct {
	mode         string
	adminEmail   string
	passwordHash string
	allowed      map[string]struct{}
	identity     *auth.IdentityProviderVerifier
	tokenMgr     *auth.TokenManager
}

// NewAuthService builds the service. A plaintext admin password is hashed
// here so it is never compared directly.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	s := &AuthService{
		mode:       cfg.Mode,
		adminEmail: normalizeEmail(cfg.AdminEmail),
		allowed:    make(map[string]struct{}, len(cfg.AllowedEmails)),
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
	}
	for _, email := range cfg.AllowedEmails {
		s.allowed[normalizeEmail(email)] = struct{}{}
	}

	switch cfg.Mode {
	case config.AuthModePassword:
		s.passwordHash = cfg.AdminPasswordHash
		if s.passwordHash != "" {
			if err := auth.CheckHash(s.passwordHash); err != nil {
				return nil, fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
			}
		} else {
			hash, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hash admin password: %w", err)
			}
			s.passwordHash = hash
		}
	case config.AuthModeIdentityProvider:
		idp := cfg.IdentityProvider
		if idp.ClientID == "" || idp.Issuer == "" || idp.JWKSURL == "" {
			return nil, errors.New("identity provider client id, issuer and key set url are required")
		}
		s.identity = auth.NewIdentityProviderVerifier(auth.NewJWKSKeySet(idp.JWKSURL), idp.Issuer, idp.ClientID)
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
	return s, nil
}

// Mode reports which login scheme is enabled.
func (s *AuthService) Mode() string {
	return s.mode
}

// Authenticate checks the configured admin by email and password.
func (s *AuthService) Authenticate(_ context.Context, email, password string) (string, time.Time, error) {
	if s.mode != config.AuthModePassword {
		return "", time.Time{}, apperrors.NewForbidden("password login disabled")
	}
	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), []byte(s.adminEmail)) == 1
	// always run bcrypt so a wrong email costs the same as a wrong password
	passwordOK := auth.ComparePassword(s.passwordHash, password) == nil
	if !emailOK || !passwordOK {
		return "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	return s.issue(s.adminEmail)
}

// LoginWithIdentityProvider verifies an ID token from the external identity
// provider and issues a credential for the email it asserts, if that email
// is allow-listed.
func (s *AuthService) LoginWithIdentityProvider(ctx context.Context, idToken string) (string, time.Time, error) {
	if s.mode != config.AuthModeIdentityProvider {
		return "", time.Time{}, apperrors.NewForbidden("identity provider login disabled")
	}
	email, err := s.identity.VerifyEmail(ctx, idToken)
	if err != nil {
		return "", time.Time{}, err
	}
	if _, ok := s.allowed[email]; !ok {
		return "", time.Time{}, apperrors.NewUnauthorized("not authorized as admin")
	}
	return s.issue(email)
}

// Verify decodes a presented credential.
func (s *AuthService) Verify(token string) (*domain.AdminIdentity, error) {
	return s.tokenMgr.Verify(token)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(email string) (string, time.Time, error) {
	token, exp, err := s.tokenMgr.GenerateToken(email)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(fmt.Errorf("sign token: %w", err))
	}
	return token, exp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
