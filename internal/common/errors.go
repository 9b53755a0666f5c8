// Package common defines shared constants and sentinel errors used across
// the fleetdesk client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Session lifecycle errors.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInvalidToken        = errors.New("invalid token")

	// Transport errors.
	ErrUnavailable = errors.New("server unavailable")
)
