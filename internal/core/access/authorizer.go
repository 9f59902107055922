// Package access decides what a subject may see: route guards and the
// back-office navigation tree. Everything here is a pure function of the
// subject and the policy, safe to call concurrently.
package access

import "github.com/servicedesk/backoffice/internal/core/domain"

// Subject is the caller being authorized. A nil Subject or an empty Role
// means the role has not been loaded yet.
type Subject struct {
	Role       domain.Role
	SuperAdmin bool
}

// SubjectOf derives the authorization subject from a request session.
func SubjectOf(s *domain.Session) *Subject {
	if s == nil {
		return nil
	}
	return &Subject{Role: s.Role, SuperAdmin: s.SuperAdmin}
}

// IsAuthorized reports whether role may access a resource restricted to
// required. An empty required set means no restriction; an empty role is
// denied whenever a restriction exists.
func IsAuthorized(role domain.Role, required []domain.Role) bool {
	if len(required) == 0 {
		return true
	}
	if role == "" {
		return false
	}
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}

// Authorizer applies IsAuthorized with an optional super-admin override.
type Authorizer struct {
	// AdminOverride grants everything to subjects flagged SuperAdmin.
	AdminOverride bool
}

// NewAuthorizer returns an Authorizer with the given override policy.
func NewAuthorizer(adminOverride bool) Authorizer {
	return Authorizer{AdminOverride: adminOverride}
}

// Allows reports whether s may access a resource restricted to required.
func (a Authorizer) Allows(s *Subject, required []domain.Role) bool {
	if a.AdminOverride && s != nil && s.SuperAdmin {
		return true
	}
	var role domain.Role
	if s != nil {
		role = s.Role
	}
	return IsAuthorized(role, required)
}
