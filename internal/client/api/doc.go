// Package api contains the credential-exchange client for the fleet backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): Login /
//     LoginWithToken, Refresh, Logout, ChangePassword, RequestPasswordReset,
//     and the advisory SessionStatus fetch.
//  2. A concrete JSON-over-HTTP implementation (see RESTClient) bound to the
//     backend's /api/v1/accounts/auth/ endpoints. Authenticated calls carry
//     a bearer access token; every call carries the per-install device id.
//
// The client is stateless and side-effect free with respect to local storage:
// persisting a login or refresh result is the caller's job (see the session
// package).
//
// # Error Handling
//
// Rejected credentials surface as *AuthenticationError with the server's own
// message; rejected refresh tokens as *TokenRefreshError. Transport failures
// wrap common.ErrUnavailable and can be matched with errors.Is.
package api
