package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/golang-jwt/jwt/v5"
)

// Whoami prints the cached account profile.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Name:        %s\n", u.DisplayName())
	fmt.Printf("Employee ID: %s\n", u.EmployeeID)
	fmt.Printf("Email:       %s\n", u.Email)
	fmt.Printf("Role:        %s\n", u.Role)
	fmt.Printf("Department:  %s\n", u.Department)
	if u.Phone != "" {
		fmt.Printf("Phone:       %s\n", u.Phone)
	}
	return nil
}

// Session prints the lifecycle state plus the advisory metadata last
// reported by the server, if any.
func (a *App) Session(ctx context.Context) error {
	fmt.Printf("State: %s\n", a.session.State())

	info := a.session.SessionInfo()
	if info == nil {
		fmt.Println("No session metadata available.")
		return nil
	}

	fmt.Printf("Session ID:      %s\n", info.SessionID)
	fmt.Printf("Active sessions: %d of %d\n", info.ActiveSessionsCount, info.MaxSessions)
	fmt.Printf("Time remaining:  %ds\n", info.TimeRemainingSeconds)
	if info.IsExpiringSoon {
		fmt.Println("Warning: session is expiring soon, use 'extend' to renew it.")
	}
	return nil
}

// Extend refreshes the access token immediately instead of waiting for the
// background checker. A rejected refresh ends the session.
func (a *App) Extend(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return nil
	}

	if !a.session.RefreshAccessToken(ctx) {
		if err := a.session.Err(); err != nil {
			fmt.Println("Could not extend session:", err)
		} else {
			fmt.Println("Session has ended.")
		}
		return nil
	}

	fmt.Println("Session extended.")
	return nil
}

// Token prints the claims of the current access token. The signature is not
// verified; this is a debugging aid, not an authorization check.
func (a *App) Token(ctx context.Context) error {
	raw := a.session.Token()
	if raw == "" {
		fmt.Println("Not logged in.")
		return nil
	}

	claims, err := decodeClaims(raw)
	if err != nil {
		fmt.Println("Access token is not a decodable JWT:", err)
		return err
	}

	keys := make([]string, 0, len(claims))
	for k := range claims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("%s: %v\n", k, claims[k])
	}
	return nil
}

// decodeClaims parses raw as a JWT without verifying the signature and
// returns its claim set.
func decodeClaims(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
