package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/feedback-portal/internal/domain"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// DefaultTokenTTL is the admin credential lifetime when none is configured.
const DefaultTokenTTL = 2 * time.Hour

// TokenManager handles issuing and validating admin JWTs.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes JWT payload.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs an admin JWT for email.
func (tm *TokenManager) GenerateToken(email string) (string, time.Time, error) {
	return tm.generate(email, domain.RoleAdmin)
}

func (tm *TokenManager) generate(email, role string) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature and expiry and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Verify turns a presented credential into an admin identity.
// Missing, malformed and badly signed tokens are unauthorized, expired tokens
// are reported as such, and a valid token without the admin role is forbidden.
func (tm *TokenManager) Verify(tokenStr string) (*domain.AdminIdentity, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return nil, apperrors.NewUnauthorized("missing credential")
	}
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewTokenExpired()
		}
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	if claims.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}

	identity := &domain.AdminIdentity{Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}
