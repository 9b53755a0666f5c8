package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// AuthenticationError reports a rejected login, password change, or reset
// request. Message is human-readable and safe to show to the user verbatim.
type AuthenticationError struct {
	Status  int
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// TokenRefreshError reports a refresh token rejected by the server (expired,
// revoked, or malformed). The session is no longer recoverable when this is
// returned.
type TokenRefreshError struct {
	Status  int
	Message string
}

func (e *TokenRefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected: %s", e.Message)
}

// statusError is the transport-level representation of a non-2xx response,
// converted by each operation into its public error type.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.status, e.message)
}

// errorMessage extracts a human-readable message from a non-2xx response
// body, preferring the structured error/message/detail fields and falling
// back to the HTTP status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Err     string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Err, payload.Message, payload.Detail} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("request failed: %s", http.StatusText(status))
}
