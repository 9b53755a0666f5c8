package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
	"github.com/tomarAyush07/fleetdesk-cli/internal/common"
	"github.com/tomarAyush07/fleetdesk-cli/internal/logging"
)

// basePath is the backend's authentication API prefix.
const basePath = "/api/v1/accounts/auth/"

// requestTimeout caps every auth call. Auth requests are small and a hung
// call would freeze the session checker.
const requestTimeout = 12 * time.Second

// RESTClient implements Client against the fleet backend's JSON API.
// Every request carries the per-install device id so the server can count
// concurrent sessions per account.
type RESTClient struct {
	baseURL  string
	deviceID string
	http     *http.Client
	log      logging.Logger
}

// NewRESTClient constructs a RESTClient for the given server base URL
// (scheme://host[:port], without the API prefix).
func NewRESTClient(baseURL, deviceID string, log logging.Logger) *RESTClient {
	return &RESTClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		deviceID: deviceID,
		http:     &http.Client{Timeout: requestTimeout},
		log:      log,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access              string              `json:"access"`
	Refresh             string              `json:"refresh"`
	AccessExpiresAt     time.Time           `json:"access_expires_at"`
	RefreshExpiresAt    time.Time           `json:"refresh_expires_at"`
	User                *models.UserProfile `json:"user"`
	MaxSessions         int                 `json:"max_sessions"`
	ActiveSessionsCount int                 `json:"active_sessions_count"`
	SessionID           string              `json:"session_id"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access          string    `json:"access"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
	Message         string    `json:"message"`
}

func (c *RESTClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "login/", "", credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, &AuthenticationError{Status: se.status, Message: se.message}
		}
		return nil, fmt.Errorf("login request: %w", err)
	}

	return &LoginResult{
		Tokens: models.TokenPair{
			AccessToken:      resp.Access,
			RefreshToken:     resp.Refresh,
			AccessExpiresAt:  resp.AccessExpiresAt,
			RefreshExpiresAt: resp.RefreshExpiresAt,
		},
		User: resp.User,
		Session: &models.SessionInfo{
			SessionID:           resp.SessionID,
			MaxSessions:         resp.MaxSessions,
			ActiveSessionsCount: resp.ActiveSessionsCount,
		},
	}, nil
}

// LoginWithToken calls the same endpoint as Login; the backend accepts the
// employee username in the email field.
func (c *RESTClient) LoginWithToken(ctx context.Context, username, password string) (*LoginResult, error) {
	return c.Login(ctx, username, password)
}

func (c *RESTClient) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	var resp refreshResponse
	err := c.do(ctx, http.MethodPost, "token/refresh/", "", refreshRequest{Refresh: refreshToken}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, &TokenRefreshError{Status: se.status, Message: se.message}
		}
		return nil, fmt.Errorf("refresh request: %w", err)
	}
	return &RefreshResult{AccessToken: resp.Access, AccessExpiresAt: resp.AccessExpiresAt}, nil
}

func (c *RESTClient) Logout(ctx context.Context, accessToken, refreshToken string) error {
	err := c.do(ctx, http.MethodPost, "logout/", accessToken, refreshRequest{Refresh: refreshToken}, nil)
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	return nil
}

func (c *RESTClient) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword, confirm string) error {
	body := struct {
		OldPassword        string `json:"old_password"`
		NewPassword        string `json:"new_password"`
		NewPasswordConfirm string `json:"new_password_confirm"`
	}{oldPassword, newPassword, confirm}

	err := c.do(ctx, http.MethodPost, "change-password/", accessToken, body, nil)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return &AuthenticationError{Status: se.status, Message: se.message}
		}
		return fmt.Errorf("change password request: %w", err)
	}
	return nil
}

func (c *RESTClient) RequestPasswordReset(ctx context.Context, employeeID, email string) error {
	body := struct {
		EmployeeID string `json:"employee_id"`
		Email      string `json:"email"`
	}{employeeID, email}

	err := c.do(ctx, http.MethodPost, "reset-password-request/", "", body, nil)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return &AuthenticationError{Status: se.status, Message: se.message}
		}
		return fmt.Errorf("password reset request: %w", err)
	}
	return nil
}

func (c *RESTClient) SessionStatus(ctx context.Context, accessToken string) (*models.SessionInfo, error) {
	var info models.SessionInfo
	if err := c.do(ctx, http.MethodGet, "session/status/", accessToken, nil, &info); err != nil {
		return nil, fmt.Errorf("session status request: %w", err)
	}
	return &info, nil
}

// do performs one JSON request against the auth API. A non-2xx response is
// returned as *statusError with the message extracted from the body;
// transport failures are wrapped with common.ErrUnavailable so callers can
// match them with errors.Is.
func (c *RESTClient) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.DeviceIDHeader, c.deviceID)
	if accessToken != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{status: resp.StatusCode, message: errorMessage(resp.StatusCode, data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
