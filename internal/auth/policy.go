// Package auth implements the authentication and authorization core:
// credential verification, token issuance and rotation, and the access
// decision applied before every resource handler.
package auth

import "github.com/iliyamo/school-help-desk/internal/model"

// Action names the operation a caller wants to perform on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Decision is the outcome of an access check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Decide is the single ownership/role check used by every resource
// handler. Rules, first match wins:
//
//  1. Admins may do anything.
//  2. Students may act on resources they own (ownerID == callerID).
//  3. Everything else is denied.
//
// Pure function: no store access, no side effects.
func Decide(callerID uint64, role model.Role, ownerID uint64, _ Action) Decision {
	if role == model.RoleAdmin {
		return Allow
	}
	if role == model.RoleStudent && callerID == ownerID {
		return Allow
	}
	return Deny
}

// CanModerateTicket reports whether the role may change a ticket's status
// or type classification. Students may edit only title and description of
// their own tickets.
func CanModerateTicket(role model.Role) bool {
	return role == model.RoleAdmin
}
