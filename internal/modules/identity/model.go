// README: Actor read model mirrored from the auth collaborator.
package identity

import (
	"time"

	"fixme/internal/types"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// ApprovalStatus is the admin approval state of a provider account.
// Non-provider accounts carry NOT_PROVIDER.
type ApprovalStatus string

const (
	ApprovalNotProvider ApprovalStatus = "NOT_PROVIDER"
	ApprovalPending     ApprovalStatus = "PENDING"
	ApprovalApproved    ApprovalStatus = "APPROVED"
	ApprovalRejected    ApprovalStatus = "REJECTED"
)

// Actor is the validated identity attached to every service call. Credentials
// and verification flows live in the auth collaborator; this module only reads
// the mirrored record.
type Actor struct {
	ID        types.ID
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      Role
	Verified  bool
	Approval  ApprovalStatus
	CreatedAt time.Time
}

// IsApprovedProvider reports whether the actor may be matched or accept work.
func (a *Actor) IsApprovedProvider() bool {
	return a.Role == RoleProvider && a.Approval == ApprovalApproved
}
