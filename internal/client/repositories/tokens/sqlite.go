package tokens

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
	"github.com/tomarAyush07/fleetdesk-cli/internal/dbx"
)

// SQLiteRepository persists credential slots in a local SQLite database.
// Expiries are stored as RFC3339 strings, the profile as JSON.
type SQLiteRepository struct {
	db *sql.DB

	// now is a seam for tests.
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) get(ctx context.Context, q dbx.DBTX, key string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) set(ctx context.Context, q dbx.DBTX, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) delete(ctx context.Context, q dbx.DBTX, keys ...string) error {
	for _, key := range keys {
		if _, err := q.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete credentials[%s]: %w", key, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) StoreTokens(ctx context.Context, pair models.TokenPair) error {
	if !pair.Complete() {
		return errors.New("token pair incomplete: token without expiry or vice versa")
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := r.set(ctx, tx, keyAccessToken, pair.AccessToken); err != nil {
			return err
		}
		if err := r.set(ctx, tx, keyRefreshToken, pair.RefreshToken); err != nil {
			return err
		}
		if err := r.set(ctx, tx, keyAccessExpiry, pair.AccessExpiresAt.Format(time.RFC3339)); err != nil {
			return err
		}
		if err := r.set(ctx, tx, keyRefreshExpiry, pair.RefreshExpiresAt.Format(time.RFC3339)); err != nil {
			return err
		}
		return r.set(ctx, tx, keyLegacyAuth, "true")
	})
}

func (r *SQLiteRepository) AccessToken(ctx context.Context) (string, error) {
	return r.get(ctx, r.db, keyAccessToken)
}

func (r *SQLiteRepository) RefreshToken(ctx context.Context) (string, error) {
	return r.get(ctx, r.db, keyRefreshToken)
}

// expiry reads an expiry slot. Absent or unparsable values read as the zero
// time so validity checks fail closed.
func (r *SQLiteRepository) expiry(ctx context.Context, key string) (time.Time, error) {
	raw, err := r.get(ctx, r.db, key)
	if err != nil {
		return time.Time{}, err
	}
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

func (r *SQLiteRepository) AccessExpiry(ctx context.Context) (time.Time, error) {
	return r.expiry(ctx, keyAccessExpiry)
}

func (r *SQLiteRepository) RefreshExpiry(ctx context.Context) (time.Time, error) {
	return r.expiry(ctx, keyRefreshExpiry)
}

func (r *SQLiteRepository) AccessTokenExpired(ctx context.Context) (bool, error) {
	exp, err := r.AccessExpiry(ctx)
	if err != nil {
		return true, err
	}
	return IsExpired(exp, r.now()), nil
}

func (r *SQLiteRepository) RefreshTokenExpired(ctx context.Context) (bool, error) {
	exp, err := r.RefreshExpiry(ctx)
	if err != nil {
		return true, err
	}
	return IsExpired(exp, r.now()), nil
}

func (r *SQLiteRepository) StoreUser(ctx context.Context, user *models.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user profile: %w", err)
	}
	return r.set(ctx, r.db, keyUserProfile, string(data))
}

func (r *SQLiteRepository) User(ctx context.Context) (*models.UserProfile, error) {
	raw, err := r.get(ctx, r.db, keyUserProfile)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var user models.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// corrupt cache reads as absent
		return nil, nil
	}
	return &user, nil
}

func (r *SQLiteRepository) RemoveTokens(ctx context.Context) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return r.delete(ctx, tx, keyAccessToken, keyRefreshToken, keyAccessExpiry, keyRefreshExpiry, keyLegacyAuth)
	})
}

func (r *SQLiteRepository) RemoveUser(ctx context.Context) error {
	return r.delete(ctx, r.db, keyUserProfile)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE key != ?`, keyDeviceID)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeviceID(ctx context.Context) (string, error) {
	id, err := r.get(ctx, r.db, keyDeviceID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	id = uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO NOTHING
	`, keyDeviceID, id)
	if err != nil {
		return "", fmt.Errorf("failed to mint device id: %w", err)
	}
	// re-read in case a concurrent process won the insert
	return r.get(ctx, r.db, keyDeviceID)
}
