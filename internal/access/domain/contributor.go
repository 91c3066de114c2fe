package domain

import "time"

// ContributorStatus tracks the invitation lifecycle. A record is created as
// pending, moves to accepted exactly once when the invitee authenticates and
// claims it, and can be revoked at any time. Revoked is terminal.
type ContributorStatus string

const (
	ContributorPending  ContributorStatus = "pending"
	ContributorAccepted ContributorStatus = "accepted"
	ContributorRevoked  ContributorStatus = "revoked"
)

// Contributor is a grant of access from one account owner to one identity.
type Contributor struct {
	ID             string
	AccountOwnerID string
	Email          string
	UserID         *string // nil until the invitee registers or logs in
	FirstName      string
	LastName       string
	Role           Role
	Status         ContributorStatus
	InvitedAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
