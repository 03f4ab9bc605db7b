package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/auth"
	"github.com/spec-kit/workforce-console/internal/config"
	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/repository"
	apperrors "github.com/spec-kit/workforce-console/pkg/util"
)

// LoginResult is a successful sign-in.
type LoginResult struct {
	Account   *domain.Admin
	Token     string
	ExpiresAt time.Time
}

// AuthService signs console accounts in and seeds the default accounts.
type AuthService struct {
	admins     repository.AdminRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.StubConfig, admins repository.AdminRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:     admins,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates an account holding role. Accounts of the other role are treated as
// unknown so the two login surfaces stay separate.
func (s *AuthService) Login(ctx context.Context, role, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	account, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.ToDomainError(err).Code == apperrors.CodeNotFound {
			return nil, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, err
	}
	if account.Role != role {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !account.Active {
		return nil, apperrors.NewForbidden("Account deactivated")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	at := s.now().UTC()
	if err := s.admins.TouchLogin(ctx, account.ID, at); err != nil {
		s.logger.Warn("record last login failed", zap.Int64("account_id", account.ID), zap.Error(err))
	} else {
		account.LastLogin = &at
	}

	s.logger.Info("account signed in", zap.Int64("account_id", account.ID), zap.String("role", role))
	return &LoginResult{Account: account, Token: token, ExpiresAt: exp}, nil
}

// SeedAccount describes an account created at startup when missing.
type SeedAccount struct {
	Name      string
	Email     string
	Password  string
	Role      string
	UserLimit *int
}

// SeedAccounts derives the default accounts from configuration.
func SeedAccounts(cfg config.StubConfig) []SeedAccount {
	limit := cfg.AdminUserLimit
	return []SeedAccount{
		{Name: "Super Admin", Email: cfg.SuperAdminEmail, Password: cfg.SuperAdminPassword, Role: domain.RoleSuperAdmin},
		{Name: "Admin", Email: cfg.AdminEmail, Password: cfg.AdminPassword, Role: domain.RoleAdmin, UserLimit: &limit},
	}
}

// Seed creates each account whose email is not registered yet.
func (s *AuthService) Seed(ctx context.Context, accounts []SeedAccount) error {
	for _, a := range accounts {
		if a.Email == "" || a.Password == "" {
			continue
		}
		_, err := s.admins.GetByEmail(ctx, a.Email)
		if err == nil {
			continue
		}
		if apperrors.ToDomainError(err).Code != apperrors.CodeNotFound {
			return err
		}

		hash, err := auth.HashPassword(a.Password, s.bcryptCost)
		if err != nil {
			return err
		}
		account := &domain.Admin{
			Name:         a.Name,
			Email:        a.Email,
			PasswordHash: hash,
			Role:         a.Role,
			UserLimit:    a.UserLimit,
			Active:       true,
		}
		if err := s.admins.Create(ctx, account); err != nil {
			return err
		}
		s.logger.Info("seeded account", zap.String("email", account.Email), zap.String("role", account.Role))
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
