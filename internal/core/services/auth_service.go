package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	userRepo  ports.UserRepository
	authRepo  ports.AuthRepository
	jwtSecret []byte
}

func NewAuthService(userRepo ports.UserRepository, authRepo ports.AuthRepository) *AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Println("Warning: JWT_SECRET not set")
	}

	return &AuthService{
		userRepo:  userRepo,
		authRepo:  authRepo,
		jwtSecret: []byte(secret),
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Profile, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if fullName == "" {
		return nil, domain.NewValidationError("full name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("a valid email is required")
	}
	if len(input.Password) < 6 {
		return nil, domain.NewValidationError("password must be at least 6 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &domain.Profile{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (ports.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ports.TokenPair{}, domain.NewAuthorizationError("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ports.TokenPair{}, domain.NewAuthorizationError("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (ports.TokenPair, error) {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return ports.TokenPair{}, domain.NewAuthorizationError("refresh token not found")
	}
	if rtEntity.Revoked {
		return ports.TokenPair{}, domain.NewAuthorizationError("refresh token revoked")
	}
	if rtEntity.ExpiresAt.Before(time.Now()) {
		return ports.TokenPair{}, domain.NewAuthorizationError("refresh token expired")
	}

	user, err := s.userRepo.GetByID(ctx, rtEntity.UserID)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ports.TokenPair{}, domain.NewAuthorizationError("user not found")
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	// Refresh token is kept until expiry instead of rotating on every
	// refresh.
	return ports.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return nil
	}

	return s.authRepo.RevokeRefreshToken(ctx, rtEntity.ID.String())
}

// VerifyAccessToken parses the JWT and re-reads the profile so the admin
// flag reflects the current row, not the one baked into the token.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (domain.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Actor{}, domain.NewAuthorizationError("invalid access token")
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return domain.Actor{}, domain.NewAuthorizationError("invalid access token")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return domain.Actor{}, domain.NewAuthorizationError("invalid access token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.Actor{}, domain.NewAuthorizationError("user not found")
	}

	return domain.Actor{ID: user.ID, IsAdmin: user.IsAdmin}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.Profile) (ports.TokenPair, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rtEntity := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: s.hashToken(refreshToken),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
		Revoked:   false,
	}
	if err := s.authRepo.StoreRefreshToken(ctx, rtEntity); err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return ports.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) generateAccessToken(user *domain.Profile) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   time.Now().Add(accessTokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
