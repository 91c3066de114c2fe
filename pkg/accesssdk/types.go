package accesssdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the standard error payload. Code is set only for named
// conditions the client is expected to branch on (e.g. "DUPLICATE").
type ErrorResponse struct {
	// Error is a human-readable message safe to show to the user
	Error string `json:"error"`

	// Code is a machine-readable condition name, when one exists
	Code string `json:"code,omitempty"`
}

// ServerErrorResponse is returned for unexpected failures. ErrorID correlates
// the response with the server-side log line carrying full diagnostic detail.
type ServerErrorResponse struct {
	Error   string `json:"error"`
	ErrorID string `json:"errorId"`
	Success bool   `json:"success"`
}

// ============================================================================
// Contributor Types
// ============================================================================

// InviteRequest is the body for POST /v1/contributors/invite.
type InviteRequest struct {
	// ContributorEmail is the invitee's email address (max 255 chars)
	ContributorEmail string `json:"contributor_email"`

	// FirstName of the invitee (1-100 chars)
	FirstName string `json:"first_name"`

	// LastName of the invitee (1-100 chars)
	LastName string `json:"last_name"`

	// Role is one of "administrator", "contributor", "viewer"
	Role string `json:"role"`
}

// InviteResponse reports a successful invitation and which path it took.
type InviteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// IsExistingUser is true when the invitee already had an account and was
	// told to sign in rather than complete setup
	IsExistingUser bool `json:"isExistingUser"`
}

// Capabilities is the resolved permission set for a role.
type Capabilities struct {
	CanEdit                 bool `json:"canEdit"`
	CanDelete               bool `json:"canDelete"`
	CanAccessSettings       bool `json:"canAccessSettings"`
	CanAccessEncryptedVault bool `json:"canAccessEncryptedVault"`
}

// Contributor is one grant in a contributor listing.
type Contributor struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	InvitedAt time.Time `json:"invited_at"`

	// Capabilities resolved from the role, so clients never duplicate the
	// role-to-permission policy
	Capabilities Capabilities `json:"capabilities"`
}

// ContributorListResponse is the body for GET /v1/contributors.
type ContributorListResponse struct {
	Contributors []Contributor `json:"contributors"`
}

// RevokeResponse is the body for POST /v1/contributors/{id}/revoke.
type RevokeResponse struct {
	Success bool `json:"success"`
}

// ============================================================================
// Step-Up Verification Types
// ============================================================================

// StepUpIssueRequest is the body for POST /v1/stepup/issue.
type StepUpIssueRequest struct {
	// Phone is the destination number; 10 digit national or 11 digit with
	// leading 1, punctuation tolerated
	Phone string `json:"phone"`
}

// StepUpIssueResponse reports whether a code was dispatched.
type StepUpIssueResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// StepUpVerifyRequest is the body for POST /v1/stepup/verify.
type StepUpVerifyRequest struct {
	Phone string `json:"phone"`

	// Code is exactly six digits
	Code string `json:"code"`
}

// StepUpVerifyResponse carries only validity. No detail on why a code was
// rejected is ever returned.
type StepUpVerifyResponse struct {
	Valid bool `json:"valid"`
}

// ============================================================================
// Security Alert Types (service-to-service)
// ============================================================================

// AlertRequest is the body for POST /internal/v1/alerts.
type AlertRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`

	// AlertType is one of new_login, password_changed, email_changed,
	// failed_login_attempt, two_factor_enabled, two_factor_disabled
	AlertType string `json:"alertType"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// AlertResponse reports delivery or a deliberate skip.
type AlertResponse struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// ============================================================================
// Session Types
// ============================================================================

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// TOTPCode is required when two-factor is enabled on the account
	TOTPCode string `json:"totp_code,omitempty"`
}

// SetupRequest is the body for POST /v1/auth/setup, completing a provisioned
// identity using the emailed setup token.
type SetupRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// SessionResponse is returned from login and setup.
type SessionResponse struct {
	// Token is the signed session JWT
	Token string `json:"token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the session lifetime in seconds
	ExpiresIn int `json:"expires_in"`

	User UserSummary `json:"user"`
}

// UserSummary is the public view of an identity.
type UserSummary struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PhoneVerified bool   `json:"phone_verified"`
	TwoFactor     bool   `json:"two_factor_enabled"`
}

// PasswordChangeRequest is the body for POST /v1/auth/password.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// EmailChangeRequest is the body for POST /v1/auth/email.
type EmailChangeRequest struct {
	Password string `json:"password"`
	NewEmail string `json:"new_email"`
}

// SuccessResponse is the generic acknowledgement body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ============================================================================
// Two-Factor Types
// ============================================================================

// TwoFactorEnrollResponse carries the generated secret for QR rendering.
type TwoFactorEnrollResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// TwoFactorCodeRequest is the body for POST /v1/2fa/verify and /v1/2fa/disable.
type TwoFactorCodeRequest struct {
	Code string `json:"code"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthChecks reports the status of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse is the body for GET /livez and GET /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// ============================================================================
// Notification Types
// ============================================================================

// Notification is one entry in the in-app notification log.
type Notification struct {
	ID        string    `json:"id"`
	AlertType string    `json:"alert_type"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse is the body for GET /v1/notifications.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
}
