package domain

import "time"

// AlertType enumerates the authentication-relevant events that trigger a
// security alert.
type AlertType string

const (
	AlertNewLogin           AlertType = "new_login"
	AlertPasswordChanged    AlertType = "password_changed"
	AlertEmailChanged       AlertType = "email_changed"
	AlertFailedLoginAttempt AlertType = "failed_login_attempt"
	AlertTwoFactorEnabled   AlertType = "two_factor_enabled"
	AlertTwoFactorDisabled  AlertType = "two_factor_disabled"
)

// Valid reports whether t is one of the recognised alert kinds.
func (t AlertType) Valid() bool {
	switch t {
	case AlertNewLogin, AlertPasswordChanged, AlertEmailChanged,
		AlertFailedLoginAttempt, AlertTwoFactorEnabled, AlertTwoFactorDisabled:
		return true
	}
	return false
}

// SecurityAlert is an emitted alert. Produced by the system, never mutated
// by users.
type SecurityAlert struct {
	UserID    string
	Type      AlertType
	Metadata  map[string]string // ip, user_agent, location, old/new email
	Timestamp time.Time
}

// Notification is the compact in-app record persisted alongside the outbound
// message, so an alert is visible even if the email is never opened.
type Notification struct {
	ID        string
	UserID    string
	AlertType AlertType
	Subject   string
	Body      string
	CreatedAt time.Time
}
