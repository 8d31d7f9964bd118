package common

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestURLSigner_RoundTrip(t *testing.T) {
	s := NewURLSignerService([]byte("test-key"), time.Hour)

	token, expiresAt, err := s.GenerateDownloadToken("drone-1/log.bin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if time.Until(expiresAt) <= 59*time.Minute {
		t.Errorf("Expected expiry about an hour out, got %v", expiresAt)
	}

	path, err := s.ValidateDownloadToken(token)
	if err != nil {
		t.Fatalf("Expected valid token, got %v", err)
	}
	if path != "drone-1/log.bin" {
		t.Errorf("Expected storage path back, got %s", path)
	}
}

func TestURLSigner_RejectsExpired(t *testing.T) {
	s := NewURLSignerService([]byte("test-key"), time.Minute)
	issued := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issued }

	token, _, err := s.GenerateDownloadToken("drone-1/log.bin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	s.now = time.Now
	if _, err := s.ValidateDownloadToken(token); !errors.Is(err, ErrInvalidDownloadToken) {
		t.Errorf("Expected expired token rejected, got %v", err)
	}
}

func TestURLSigner_RejectsForeignKey(t *testing.T) {
	issuer := NewURLSignerService([]byte("key-a"), time.Hour)
	verifier := NewURLSignerService([]byte("key-b"), time.Hour)

	token, _, err := issuer.GenerateDownloadToken("drone-1/log.bin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := verifier.ValidateDownloadToken(token); !errors.Is(err, ErrInvalidDownloadToken) {
		t.Errorf("Expected signature mismatch rejected, got %v", err)
	}
}

func TestURLSigner_RejectsTamperedToken(t *testing.T) {
	s := NewURLSignerService([]byte("test-key"), time.Hour)
	token, _, _ := s.GenerateDownloadToken("drone-1/log.bin")

	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	if _, err := s.ValidateDownloadToken(strings.Join(parts, ".")); err == nil {
		t.Error("Expected tampered token rejected")
	}
}

func TestURLSigner_RequiresKey(t *testing.T) {
	s := NewURLSignerService(nil, time.Hour)
	if _, _, err := s.GenerateDownloadToken("x"); err == nil {
		t.Error("Expected error without signing key")
	}
	if _, err := s.ValidateDownloadToken("anything"); err == nil {
		t.Error("Expected validation to fail without signing key")
	}
}
