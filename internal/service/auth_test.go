package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/marketplace-catalog/internal/auth"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	manager := auth.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(Curator{Email: "curator@example.com", PasswordHash: string(hash)}, manager)

	resp, err := svc.Login(context.Background(), "  Curator@Example.com ", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ExpiresIn != 3600 {
		t.Fatalf("expected expires_in 3600, got %d", resp.ExpiresIn)
	}
	claims, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != auth.RoleCurator || claims.Email != "curator@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	tests := map[string]struct {
		email    string
		password string
	}{
		"wrong password": {email: "curator@example.com", password: "nope"},
		"wrong email":    {email: "other@example.com", password: "s3cret"},
		"empty email":    {email: " ", password: "s3cret"},
		"empty password": {email: "curator@example.com"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_LoginDisabledWithoutHash(t *testing.T) {
	svc := NewAuthService(Curator{Email: "curator@example.com"}, auth.NewJWTManager("secret", time.Hour))
	if _, err := svc.Login(context.Background(), "curator@example.com", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
