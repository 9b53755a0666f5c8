package api

import (
	"context"
	"time"

	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
)

// LoginResult is everything a successful credential exchange yields: the
// token pair, the user profile, and advisory session metadata.
type LoginResult struct {
	Tokens  models.TokenPair
	User    *models.UserProfile
	Session *models.SessionInfo
}

// RefreshResult carries the replacement access token minted from a refresh
// token. The refresh token itself is not rotated by the backend.
type RefreshResult struct {
	AccessToken     string
	AccessExpiresAt time.Time
}

// Client is the credential-exchange contract against the fleet backend.
// Implementations are side-effect free with respect to local storage;
// persisting results is the caller's responsibility.
type Client interface {
	// Login exchanges credentials for a token pair plus profile. Non-2xx
	// responses fail with *AuthenticationError.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// LoginWithToken is an alternate entry point kept for older call sites.
	// Same backend call and contract as Login.
	LoginWithToken(ctx context.Context, username, password string) (*LoginResult, error)

	// Refresh exchanges a still-valid refresh token for a new access token.
	// Rejected tokens fail with *TokenRefreshError.
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)

	// Logout asks the server to revoke the refresh token. Best effort: the
	// caller is expected to tear down local state regardless of the result.
	Logout(ctx context.Context, accessToken, refreshToken string) error

	// ChangePassword changes the password of the authenticated account.
	ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword, confirm string) error

	// RequestPasswordReset starts the unauthenticated reset flow.
	RequestPasswordReset(ctx context.Context, employeeID, email string) error

	// SessionStatus fetches advisory session metadata for the display layer.
	SessionStatus(ctx context.Context, accessToken string) (*models.SessionInfo, error)
}
