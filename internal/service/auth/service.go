package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/oauth"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employee.EmployeeRepository
	jwt.Service
	google oauth.GoogleService
}

// NewAuthService wires login. google may be nil when Google login is disabled.
func NewAuthService(employeeRepository employee.EmployeeRepository, jwtService jwt.Service, google oauth.GoogleService) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
		google:             google,
	}
}

func newUserResponse(emp employee.Employee) auth.UserResponse {
	return auth.UserResponse{
		ID:         emp.ID,
		Name:       emp.Name,
		Email:      emp.Email,
		Role:       emp.Role,
		Department: emp.Department,
	}
}

func (a *AuthServiceImpl) issueToken(emp employee.Employee) (auth.TokenResponse, error) {
	token, expiresAt, err := a.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		User:                 newUserResponse(emp),
	}, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := a.GetByEmail(ctx, strings.TrimSpace(loginReq.Email))
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	if emp.PasswordHash == "" || !emp.IsActive() {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	slog.Info("employee logged in", "employee_id", emp.ID)
	return a.issueToken(emp)
}

// LoginWithGoogle implements auth.AuthService. Only an existing active
// employee with a verified matching email can sign in.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, req auth.GoogleCallbackRequest) (auth.TokenResponse, error) {
	if a.google == nil {
		return auth.TokenResponse{}, auth.ErrOAuthNotConfigured
	}
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	token, err := a.google.Exchange(ctx, req.Code)
	if err != nil {
		slog.Warn("google code exchange failed", "error", err)
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	info, err := a.google.UserInfo(ctx, token)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to verify google user: %w", err)
	}
	if !info.VerifiedEmail || info.Email == "" {
		return auth.TokenResponse{}, auth.ErrOAuthEmailMismatch
	}

	emp, err := a.GetByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrOAuthEmailMismatch
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	if !emp.IsActive() {
		return auth.TokenResponse{}, auth.ErrOAuthEmailMismatch
	}

	slog.Info("employee logged in with google", "employee_id", emp.ID)
	return a.issueToken(emp)
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, employeeID string) (auth.UserResponse, error) {
	emp, err := a.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.UserResponse{}, err
		}
		return auth.UserResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return newUserResponse(emp), nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	parsed, err := jwtauth.VerifyToken(a.JWTAuth(), token)
	if err != nil {
		return auth.ErrInvalidToken
	}
	if a.IsTokenRevoked(token) {
		return auth.ErrTokenRevoked
	}

	a.RevokeToken(token, parsed.Expiration())
	return nil
}
