package tokens

import (
	"context"
	"time"

	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
)

// Storage slot names in the credentials table. The is_authenticated flag is
// legacy: older tooling checks for its presence only, so it is still written
// on login and cleared on teardown, but never read for decisions here.
const (
	keyAccessToken   = "access_token"
	keyRefreshToken  = "refresh_token"
	keyAccessExpiry  = "access_token_expiry"
	keyRefreshExpiry = "refresh_token_expiry"
	keyUserProfile   = "user_profile"
	keyLegacyAuth    = "is_authenticated"
	keyDeviceID      = "device_id"
)

// Repository is the durable credential store: synchronous key-value slots for
// the token pair, their expiries, and the cached user profile. No business
// logic and no network access.
type Repository interface {
	// StoreTokens writes all four token slots (and the legacy flag) in one
	// transaction. The pair must be complete (both tokens, both expiries).
	StoreTokens(ctx context.Context, pair models.TokenPair) error

	// AccessToken and RefreshToken return the raw token, or the empty string
	// when the slot is absent.
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)

	// AccessExpiry and RefreshExpiry return the stored expiry instant, or the
	// zero time when the slot is absent or unparsable.
	AccessExpiry(ctx context.Context) (time.Time, error)
	RefreshExpiry(ctx context.Context) (time.Time, error)

	// AccessTokenExpired and RefreshTokenExpired read the stored expiry and
	// compare it to the current time. A missing expiry reads as expired.
	AccessTokenExpired(ctx context.Context) (bool, error)
	RefreshTokenExpired(ctx context.Context) (bool, error)

	// StoreUser caches the profile as JSON. User returns nil when the slot is
	// absent or holds malformed JSON; it never fails on bad stored data.
	StoreUser(ctx context.Context, user *models.UserProfile) error
	User(ctx context.Context) (*models.UserProfile, error)

	// RemoveTokens and RemoveUser delete the respective slots. Idempotent.
	RemoveTokens(ctx context.Context) error
	RemoveUser(ctx context.Context) error

	// Clear deletes every session slot (tokens, expiries, profile, legacy
	// flag). The device id survives; it identifies the install, not the user.
	Clear(ctx context.Context) error

	// DeviceID returns the per-install identifier, minting and persisting one
	// on first use.
	DeviceID(ctx context.Context) (string, error)
}

// IsExpired reports whether a credential with the given expiry is unusable at
// instant now. A zero expiry means the slot was missing or unreadable and is
// treated as expired (fail closed).
func IsExpired(expiry, now time.Time) bool {
	if expiry.IsZero() {
		return true
	}
	return !now.Before(expiry)
}
