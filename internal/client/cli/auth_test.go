package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
	"github.com/tomarAyush07/fleetdesk-cli/internal/client/session"
)

func stubInputs(t *testing.T, text string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return text, nil }
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		return append([]byte(nil), password...), nil
	}
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

// stubPasswords makes getPassword return the given values in order,
// one per call. Each call hands out a fresh copy so the handlers can
// wipe what they receive.
func stubPasswords(t *testing.T, pws ...[]byte) func() {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if i >= len(pws) {
			return nil, errors.New("no more stubbed passwords")
		}
		pw := append([]byte(nil), pws[i]...)
		i++
		return pw, nil
	}
	return func() { getPassword = orig }
}

type fakeSession struct {
	loginEmail string
	loginPass  string
	loginErr   error

	logoutCalled bool
	logoutErr    error

	refreshOK     bool
	refreshCalled bool

	changeOld     string
	changeNew     string
	changeConfirm string
	changeErr     error

	resetEmployee string
	resetEmail    string
	resetErr      error

	authed  bool
	user    *models.UserProfile
	token   string
	info    *models.SessionInfo
	lastErr error

	clearCalled bool
	restoreErr  error
	closed      bool
	subCh       chan struct{}
}

func (f *fakeSession) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPass = email, password
	if f.loginErr == nil {
		f.authed = true
	}
	return f.loginErr
}

func (f *fakeSession) Logout(context.Context) error {
	f.logoutCalled = true
	if f.logoutErr == nil {
		f.authed = false
		f.user = nil
		f.token = ""
	}
	return f.logoutErr
}

func (f *fakeSession) RefreshAccessToken(context.Context) bool {
	f.refreshCalled = true
	return f.refreshOK
}

func (f *fakeSession) ChangePassword(_ context.Context, oldPassword, newPassword, confirm string) error {
	f.changeOld, f.changeNew, f.changeConfirm = oldPassword, newPassword, confirm
	return f.changeErr
}

func (f *fakeSession) RequestPasswordReset(_ context.Context, employeeID, email string) error {
	f.resetEmployee, f.resetEmail = employeeID, email
	return f.resetErr
}

func (f *fakeSession) Restore(context.Context) error { return f.restoreErr }
func (f *fakeSession) IsAuthenticated() bool         { return f.authed }

func (f *fakeSession) State() session.State {
	if f.authed {
		return session.StateAuthenticated
	}
	return session.StateUnauthenticated
}

func (f *fakeSession) User() *models.UserProfile      { return f.user }
func (f *fakeSession) Token() string                  { return f.token }
func (f *fakeSession) SessionInfo() *models.SessionInfo { return f.info }
func (f *fakeSession) Err() error                     { return f.lastErr }
func (f *fakeSession) ClearError()                    { f.clearCalled = true }
func (f *fakeSession) Subscribe() <-chan struct{}     { return f.subCh }
func (f *fakeSession) Close()                         { f.closed = true }

func TestLogin_Success(t *testing.T) {
	f := &fakeSession{user: &models.UserProfile{FirstName: "Jane", LastName: "Doe"}}
	a := &App{session: f}

	restore := stubInputs(t, "jane.doe@metro.example", []byte("secret"))
	defer restore()

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if f.loginEmail != "jane.doe@metro.example" {
		t.Fatalf("Login email mismatch: %q", f.loginEmail)
	}
	if f.loginPass != "secret" {
		t.Fatalf("Login password mismatch: %q", f.loginPass)
	}
}

func TestLogin_ErrorPropagates(t *testing.T) {
	f := &fakeSession{loginErr: errors.New("invalid credentials")}
	a := &App{session: f}

	restore := stubInputs(t, "jane.doe@metro.example", []byte("wrong"))
	defer restore()

	if err := a.Login(context.Background()); err == nil {
		t.Fatal("want error from session.Login")
	}
}

func TestLogout(t *testing.T) {
	f := &fakeSession{authed: true, token: "at"}
	a := &App{session: f}
	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if !f.logoutCalled {
		t.Fatal("session.Logout not called")
	}
	if f.authed {
		t.Fatal("still authenticated after logout")
	}
}

func TestLogout_ErrorPropagates(t *testing.T) {
	f := &fakeSession{logoutErr: errors.New("store failure")}
	a := &App{session: f}
	if err := a.Logout(context.Background()); err == nil {
		t.Fatal("want error from session.Logout")
	}
}

func TestPasswd_Success(t *testing.T) {
	f := &fakeSession{authed: true}
	a := &App{session: f}

	restore := stubPasswords(t, []byte("old-pw"), []byte("new-pw"), []byte("new-pw"))
	defer restore()

	if err := a.Passwd(context.Background()); err != nil {
		t.Fatalf("Passwd err: %v", err)
	}
	if f.changeOld != "old-pw" || f.changeNew != "new-pw" || f.changeConfirm != "new-pw" {
		t.Fatalf("ChangePassword args mismatch: %q %q %q", f.changeOld, f.changeNew, f.changeConfirm)
	}
}

func TestPasswd_MismatchSkipsServerCall(t *testing.T) {
	f := &fakeSession{authed: true}
	a := &App{session: f}

	restore := stubPasswords(t, []byte("old-pw"), []byte("new-pw"), []byte("other"))
	defer restore()

	if err := a.Passwd(context.Background()); err != nil {
		t.Fatalf("Passwd err: %v", err)
	}
	if f.changeNew != "" {
		t.Fatal("ChangePassword called despite confirmation mismatch")
	}
}

func TestPasswd_ErrorClearsSessionError(t *testing.T) {
	f := &fakeSession{authed: true, changeErr: errors.New("old password incorrect")}
	a := &App{session: f}

	restore := stubPasswords(t, []byte("bad"), []byte("new-pw"), []byte("new-pw"))
	defer restore()

	if err := a.Passwd(context.Background()); err == nil {
		t.Fatal("want error from ChangePassword")
	}
	if !f.clearCalled {
		t.Fatal("session error not cleared after reporting")
	}
}

func TestResetRequest(t *testing.T) {
	f := &fakeSession{}
	a := &App{session: f}

	origST := getSimpleText
	inputs := []string{"EMP-0042", "jane.doe@metro.example"}
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		v := inputs[i]
		i++
		return v, nil
	}
	defer func() { getSimpleText = origST }()

	if err := a.ResetRequest(context.Background()); err != nil {
		t.Fatalf("ResetRequest err: %v", err)
	}
	if f.resetEmployee != "EMP-0042" || f.resetEmail != "jane.doe@metro.example" {
		t.Fatalf("reset args mismatch: %q %q", f.resetEmployee, f.resetEmail)
	}
}
