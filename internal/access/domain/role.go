package domain

// Role is the trust level granted to a contributor on an owner's account.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleContributor   Role = "contributor"
	RoleViewer        Role = "viewer"
)

// Valid reports whether r is one of the three recognised roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleContributor, RoleViewer:
		return true
	}
	return false
}

// Capabilities is the concrete set of permitted operations derived from a
// role. Zero value is the most restrictive set.
type Capabilities struct {
	CanEdit                 bool `json:"canEdit"`
	CanDelete               bool `json:"canDelete"`
	CanAccessSettings       bool `json:"canAccessSettings"`
	CanAccessEncryptedVault bool `json:"canAccessEncryptedVault"`
}

// OwnerCapabilities returns the capability set for the account owner, who has
// no contributor relation and can do everything.
func OwnerCapabilities() Capabilities {
	return Capabilities{
		CanEdit:                 true,
		CanDelete:               true,
		CanAccessSettings:       true,
		CanAccessEncryptedVault: true,
	}
}

// Capabilities resolves the capability set for a role. Unrecognised roles
// resolve to the all-false set: unknown input must never grant access.
func (r Role) Capabilities() Capabilities {
	switch r {
	case RoleAdministrator:
		return Capabilities{
			CanEdit:                 true,
			CanDelete:               true,
			CanAccessSettings:       true,
			CanAccessEncryptedVault: true,
		}
	case RoleContributor:
		return Capabilities{CanEdit: true}
	case RoleViewer:
		return Capabilities{}
	default:
		return Capabilities{}
	}
}

// Description returns the plain-language summary of what a role can and
// cannot do, derived from the capability set so invitation copy never drifts
// from the policy actually enforced.
func (r Role) Description() string {
	caps := r.Capabilities()
	switch {
	case caps.CanAccessEncryptedVault:
		return "full access: can view and edit records, delete items, change account settings, and open the encrypted vault"
	case caps.CanEdit:
		return "can view and edit records, but cannot delete items, change account settings, or open the encrypted vault"
	default:
		return "read-only access: can view records, but cannot make any changes"
	}
}
