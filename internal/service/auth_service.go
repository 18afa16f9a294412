package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/query-desk/internal/auth"
	"github.com/spec-kit/query-desk/internal/config"
	"github.com/spec-kit/query-desk/internal/domain"
	"github.com/spec-kit/query-desk/internal/repository"
	"github.com/spec-kit/query-desk/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows. Admin login is a
// two-step flow: password check issues an OTP, verifying the OTP issues the
// admin token.
type AuthService struct {
	users      repository.UserRepository
	admins     repository.AdminRepository
	otp        auth.OTPStore
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
	otpTTL     time.Duration
	otpLength  int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	AdminRepo repository.AdminRepository
	OTPStore  auth.OTPStore
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		admins:     deps.AdminRepo,
		otp:        deps.OTPStore,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		otpTTL:     cfg.Auth.OTPTTL(),
		otpLength:  cfg.Auth.AdminOTPLength,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterUser creates a new end-user account and issues a token.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, errorutil.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, errorutil.NewStoreError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, errorutil.NewStoreError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.RoleUser)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// LoginUser authenticates an end-user.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, errorutil.NewStoreError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.RoleUser)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// RegisterAdmin creates a new administrator account.
func (s *AuthService) RegisterAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, errorutil.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.NewStoreError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return admin, nil
}

// RequestAdminOTP verifies the admin password and stores a short-lived code.
// The code is returned so the caller can deliver it; the HTTP layer does not
// echo it outside development.
func (s *AuthService) RequestAdminOTP(ctx context.Context, email, password string) (string, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errorutil.NewUnauthorized("invalid credentials")
		}
		return "", errorutil.NewStoreError(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return "", errorutil.NewUnauthorized("invalid credentials")
	}

	code, err := auth.GenerateOTP(s.otpLength)
	if err != nil {
		return "", err
	}
	if err := s.otp.Put(ctx, email, code, s.otpTTL); err != nil {
		return "", errorutil.NewStoreError(err)
	}
	if s.logger != nil {
		s.logger.Info("admin otp issued", zap.String("email", email))
	}
	return code, nil
}

// LoginAdmin verifies the OTP and issues an admin-role token.
func (s *AuthService) LoginAdmin(ctx context.Context, email, code string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, errorutil.NewStoreError(err)
	}

	ok, err := s.otp.Verify(ctx, email, code)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewStoreError(err)
	}
	if !ok {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid or expired code")
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin.ID, domain.RoleAdmin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, exp, nil
}
