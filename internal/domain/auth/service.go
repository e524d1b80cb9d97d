package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, req GoogleCallbackRequest) (TokenResponse, error)
	Me(ctx context.Context, employeeID string) (UserResponse, error)
	Logout(ctx context.Context, token string) error
}
