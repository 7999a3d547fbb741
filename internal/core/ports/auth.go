package ports

import "context"

// AuthService guards the control API. When no credentials are configured it
// reports Enabled()==false and every request passes.
type AuthService interface {
	Enabled() bool
	// Login validates credentials and returns a session token.
	Login(ctx context.Context, username, password string) (string, error)
	// ValidateToken checks whether a session token is still valid.
	ValidateToken(ctx context.Context, token string) error
	// Logout invalidates a session token.
	Logout(ctx context.Context, token string)
}
