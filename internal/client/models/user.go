package models

import "strings"

// UserProfile is the account profile cached alongside the token pair.
// JSON tags follow the backend's snake_case field names.
type UserProfile struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Phone      string `json:"phone,omitempty"`
}

// DisplayName returns "FirstName LastName" trimmed of surrounding spaces,
// falling back to the email when both name parts are empty.
func (u *UserProfile) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
