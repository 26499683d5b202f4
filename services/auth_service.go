package services

import (
	"fmt"
	"time"

	"github.com/fairwayfive/golf-pool/utils"
	"github.com/golang-jwt/jwt/v4"
)

// AdminRole is the role claim carried by admin tokens.
const AdminRole = "admin"

// AdminClaims is the JWT payload issued to a logged-in admin.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and validates admin tokens. The pool has a single
// shared admin credential stored as a bcrypt hash.
type AuthService struct {
	jwtSecret    []byte
	passwordHash string
	tokenTTL     time.Duration
}

func NewAuthService(jwtSecret, passwordHash string) *AuthService {
	return &AuthService{
		jwtSecret:    []byte(jwtSecret),
		passwordHash: passwordHash,
		tokenTTL:     24 * time.Hour,
	}
}

// Login verifies the admin password and returns a signed token with its
// expiry.
func (s *AuthService) Login(password string) (string, time.Time, error) {
	if !utils.CheckPasswordHash(password, s.passwordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := AdminClaims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses a token and confirms it carries a live admin claim.
func (s *AuthService) Verify(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.Role != AdminRole {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
