package identity

import "errors"

// ErrForbidden covers role and ownership mismatches alike: the caller is
// authenticated but not entitled to act here. Callers that want "not found"
// semantics use the store error instead.
var ErrForbidden = errors.New("not permitted")

// RequireRole is the single guard invoked at the top of every lifecycle
// operation: the actor must exist and hold the wanted role.
func RequireRole(a *Actor, want Role) error {
	if a == nil || a.Role != want {
		return ErrForbidden
	}
	return nil
}

// RequireApprovedProvider guards operations reserved for providers that passed
// admin approval.
func RequireApprovedProvider(a *Actor) error {
	if err := RequireRole(a, RoleProvider); err != nil {
		return err
	}
	if a.Approval != ApprovalApproved {
		return ErrForbidden
	}
	return nil
}
