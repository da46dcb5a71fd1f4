package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/paleteria/paleteria-pos/internal/platform/logger"
	"github.com/paleteria/paleteria-pos/internal/staff/domain"
	"github.com/paleteria/paleteria-pos/internal/staff/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRole        = errors.New("unknown staff role")
)

const defaultSecret = "paleteria-pos-insecure-dev-secret"

type StaffService interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	ParseToken(tokenString string) (*domain.Claims, error)
	// EnsureAccount creates the account when the username is free. Existing
	// accounts are left untouched.
	EnsureAccount(ctx context.Context, username, password string, role domain.Role) error
}

type staffService struct {
	repo     repository.StaffRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewStaffService(repo repository.StaffRepository, secret string, tokenTTL time.Duration) StaffService {
	if secret == "" {
		logger.Warn("JWT_SECRET_KEY not set, using default insecure key")
		secret = defaultSecret
	}
	return &staffService{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *staffService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	staff, err := s.repo.GetStaffByUsername(ctx, normalizeUsername(req.Username))
	if err != nil {
		if !errors.Is(err, repository.ErrStaffNotFound) {
			logger.Error("Login: failed to get staff by username", err)
		}
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	issued := s.now()
	expires := issued.Add(s.tokenTTL)
	claims := domain.Claims{
		Username: staff.Username,
		Role:     staff.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		logger.Error("Login: failed to sign token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	logger.Info("Staff logged in", "username", staff.Username, "role", staff.Role)
	staff.PasswordHash = ""
	return &domain.LoginResponse{Staff: *staff, Token: tokenString, ExpiresAt: expires}, nil
}

func (s *staffService) ParseToken(tokenString string) (*domain.Claims, error) {
	claims := &domain.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *staffService) EnsureAccount(ctx context.Context, username, password string, role domain.Role) error {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		logger.Warn("Skipping staff seed without username or password", "role", role)
		return nil
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	_, err := s.repo.GetStaffByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrStaffNotFound) {
		return fmt.Errorf("could not look up staff %s: %w", username, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}
	staff := &domain.Staff{Username: username, PasswordHash: string(hashed), Role: role}
	if err := s.repo.CreateStaff(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrStaffConflict) {
			return nil
		}
		return fmt.Errorf("could not create staff %s: %w", username, err)
	}
	logger.Info("Staff account seeded", "username", username, "role", role)
	return nil
}
