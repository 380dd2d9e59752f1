package service

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
	sessionTTL     = 24 * time.Hour
)

// AuthService verifies the admin credential and issues session tokens.
// Mutating endpoints accept either the static admin token, compared in
// constant time, or a session JWT signed with it.
type AuthService struct {
	adminToken   []byte
	passwordHash string // bcrypt hash; preferred when set
	password     []byte // plain fallback, compared in constant time
}

// NewAuthService creates an AuthService. passwordHash takes precedence
// over password when both are configured.
func NewAuthService(adminToken, passwordHash, password string) *AuthService {
	return &AuthService{
		adminToken:   []byte(adminToken),
		passwordHash: passwordHash,
		password:     []byte(password),
	}
}

// Login verifies the admin password and returns a signed session token.
// Failures are uniformly ErrUnauthorized to avoid credential probing.
func (s *AuthService) Login(password string) (string, error) {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return "", domain.ErrUnauthorized
	}

	if !s.passwordMatches(password) {
		return "", domain.ErrUnauthorized
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(sessionTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.adminToken)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// ValidateBearer accepts the static admin token or a valid session JWT.
func (s *AuthService) ValidateBearer(token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), s.adminToken) == 1 {
		return nil
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.adminToken, nil
	})
	if err != nil || !parsed.Valid {
		return domain.ErrUnauthorized
	}
	return nil
}

func (s *AuthService) passwordMatches(password string) bool {
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare(s.password, []byte(password)) == 1
}
