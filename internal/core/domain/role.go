package domain

import (
	"errors"
	"strings"
)

// Role is the single primary role a back-office user holds.
type Role string

const (
	RoleAdmin              Role = "ADMIN"
	RoleManagerReviewers   Role = "MANAGER_REVIEWERS"
	RoleAssistantReviewers Role = "ASSISTANT_REVIEWERS"
	RoleClient             Role = "CLIENT"
	RoleUser               Role = "USER"
)

var ErrInvalidRole = errors.New("invalid role")

// Roles lists every known role, highest authority first.
var Roles = []Role{RoleAdmin, RoleManagerReviewers, RoleAssistantReviewers, RoleClient, RoleUser}

// StaffRoles are the back-office tiers: admins, managers and assistants.
var StaffRoles = []Role{RoleAdmin, RoleManagerReviewers, RoleAssistantReviewers}

// Valid reports whether r belongs to the closed set of roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole normalises s (case and surrounding blanks) and rejects unknown roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
