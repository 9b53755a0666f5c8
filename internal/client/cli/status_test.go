package cli

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestDecodeClaims(t *testing.T) {
	raw := signedTestToken(t, jwt.MapClaims{
		"sub":  "user-17",
		"role": "dispatcher",
	})

	claims, err := decodeClaims(raw)
	require.NoError(t, err)
	require.Equal(t, "user-17", claims["sub"])
	require.Equal(t, "dispatcher", claims["role"])
}

func TestDecodeClaims_NotAJWT(t *testing.T) {
	_, err := decodeClaims("opaque-session-token")
	require.Error(t, err)
}

func TestToken_NotLoggedIn(t *testing.T) {
	a := &App{session: &fakeSession{}}
	require.NoError(t, a.Token(context.Background()))
}

func TestToken_DecodableJWT(t *testing.T) {
	f := &fakeSession{
		authed: true,
		token:  signedTestToken(t, jwt.MapClaims{"sub": "user-17"}),
	}
	a := &App{session: f}
	require.NoError(t, a.Token(context.Background()))
}

func TestToken_OpaqueTokenReported(t *testing.T) {
	f := &fakeSession{authed: true, token: "opaque-session-token"}
	a := &App{session: f}
	require.Error(t, a.Token(context.Background()))
}

func TestExtend(t *testing.T) {
	t.Run("not logged in", func(t *testing.T) {
		f := &fakeSession{}
		a := &App{session: f}
		require.NoError(t, a.Extend(context.Background()))
		require.False(t, f.refreshCalled)
	})

	t.Run("refresh succeeds", func(t *testing.T) {
		f := &fakeSession{authed: true, refreshOK: true}
		a := &App{session: f}
		require.NoError(t, a.Extend(context.Background()))
		require.True(t, f.refreshCalled)
	})

	t.Run("refresh rejected ends quietly", func(t *testing.T) {
		f := &fakeSession{authed: true, refreshOK: false}
		a := &App{session: f}
		require.NoError(t, a.Extend(context.Background()))
		require.True(t, f.refreshCalled)
	})
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	a := &App{session: &fakeSession{}}
	require.NoError(t, a.Whoami(context.Background()))
}

func TestSession_NoMetadata(t *testing.T) {
	a := &App{session: &fakeSession{authed: true}}
	require.NoError(t, a.Session(context.Background()))
}
