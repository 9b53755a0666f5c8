package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/tomarAyush07/fleetdesk-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and tries to authenticate.
//
// On success it prints a greeting with the account's display name; the
// session manager has already persisted the tokens by then. The password
// byte slice is securely wiped before returning. Any I/O or exchange error
// is returned unchanged.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	if u := a.session.User(); u != nil {
		fmt.Printf("Welcome, %s!\n", u.DisplayName())
	}
	return nil
}

// Logout ends the session: the refresh token is revoked on a best-effort
// basis and local credentials are removed. Calling it while logged out is
// harmless.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// Passwd prompts for the current and new passwords and changes the account
// password. The new password must be confirmed; a mismatch aborts locally
// without a server call.
func (a *App) Passwd(ctx context.Context) error {
	oldPw, err := getPassword("Current password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPw)

	newPw, err := getPassword("New password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPw)

	confirm, err := getPassword("Confirm new password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(newPw) != string(confirm) {
		fmt.Println("Passwords do not match.")
		return nil
	}

	if err := a.session.ChangePassword(ctx, string(oldPw), string(newPw), string(confirm)); err != nil {
		fmt.Println("Password change failed:", err)
		a.session.ClearError()
		return err
	}

	fmt.Println("Password changed.")
	return nil
}

// ResetRequest starts the unauthenticated password-reset flow. The response
// is intentionally the same whether or not the account exists.
func (a *App) ResetRequest(ctx context.Context) error {
	employeeID, err := getSimpleText(a.reader, "Enter employee ID", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.RequestPasswordReset(ctx, employeeID, email); err != nil {
		fmt.Println("Reset request failed:", err)
		return err
	}

	fmt.Println("If the account exists, reset instructions have been sent.")
	return nil
}
