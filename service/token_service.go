package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"caltracker-api/logger"
	"caltracker-api/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour

	refreshTokenBytes = 32
)

// SigningKeyProvider supplies the HMAC key for access tokens. It is asked for
// the key on every sign and verify, so replacing the provider rotates the key.
type SigningKeyProvider interface {
	SigningKey() []byte
}

// TokenService issues stateless access tokens and opaque refresh tokens.
type TokenService struct {
	keys       SigningKeyProvider
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService. Non-positive TTLs fall back to the
// defaults.
func NewTokenService(keys SigningKeyProvider, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &TokenService{
		keys:       keys,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccessToken signs an HS256 JWT whose subject is the user id.
func (s *TokenService) IssueAccessToken(userID int) (string, error) {
	now := s.now()
	claims := &model.AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.keys.SigningKey())
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// ValidateAccessToken returns the subject user id, or ErrInvalidToken when
// the signature, algorithm, payload, subject or expiry does not check out.
func (s *TokenService) ValidateAccessToken(tokenString string) (int, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.keys.SigningKey(), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		logger.Log.WithError(err).Debug("Access token rejected")
		return 0, ErrInvalidToken
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// IssueRefreshToken returns a fresh opaque token and the time it stops being
// accepted.
func (s *TokenService) IssueRefreshToken() (string, time.Time, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), s.now().Add(s.refreshTTL), nil
}

// IsRefreshValid reports whether a refresh token with the stored expiry may
// still be redeemed. The token string itself carries no state.
func (s *TokenService) IsRefreshValid(expiresAt *time.Time) bool {
	return expiresAt != nil && s.now().Before(*expiresAt)
}

// HashRefreshToken is the digest under which a refresh token is stored.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
