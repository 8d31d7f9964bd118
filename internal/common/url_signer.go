package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidDownloadToken = errors.New("invalid or expired download token")

// DownloadClaims binds a signed link to one stored log file
type DownloadClaims struct {
	StoragePath string `json:"storage_path"`
	jwt.RegisteredClaims
}

// URLSignerService issues and checks short-lived download links for stored
// flight logs
type URLSignerService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewURLSignerService creates a new URL signer service
func NewURLSignerService(secretKey []byte, ttl time.Duration) *URLSignerService {
	return &URLSignerService{
		secretKey: secretKey,
		ttl:       ttl,
		now:       time.Now,
	}
}

// TTL is how long issued links stay valid
func (s *URLSignerService) TTL() time.Duration {
	return s.ttl
}

// GenerateDownloadToken signs a token for storagePath and returns it with its expiry
func (s *URLSignerService) GenerateDownloadToken(storagePath string) (string, time.Time, error) {
	if len(s.secretKey) == 0 {
		return "", time.Time{}, errors.New("url signing key is not configured")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := DownloadClaims{
		StoragePath: storagePath,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateDownloadToken returns the storage path the token grants access to
func (s *URLSignerService) ValidateDownloadToken(tokenString string) (string, error) {
	if len(s.secretKey) == 0 {
		return "", ErrInvalidDownloadToken
	}

	claims := &DownloadClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidDownloadToken
	}

	if claims.StoragePath == "" {
		return "", ErrInvalidDownloadToken
	}
	return claims.StoragePath, nil
}
