package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/marketplace-catalog/internal/auth"
	"github.com/octobees/marketplace-catalog/internal/dto"
)

// Curator is the single account allowed to manage listings.
type Curator struct {
	Email        string
	PasswordHash string
}

// AuthService validates curator credentials and issues tokens.
type AuthService struct {
	curator Curator
	jwt     *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(curator Curator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{curator: curator, jwt: jwtManager}
}

// Login validates credentials and returns a JWT. An empty password hash
// disables login.
func (s *AuthService) Login(_ context.Context, email, password string) (dto.LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || s.curator.PasswordHash == "" {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if !strings.EqualFold(email, s.curator.Email) {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.curator.PasswordHash), []byte(password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(auth.RoleCurator, s.curator.Email, auth.RoleCurator)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	return dto.LoginResponse{AccessToken: token, ExpiresIn: int64(s.jwt.TTL().Seconds())}, nil
}
