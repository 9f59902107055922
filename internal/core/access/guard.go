package access

import "github.com/servicedesk/backoffice/internal/core/domain"

// State is the outcome of a route guard evaluation.
type State int

const (
	// Pending means the subject's role is not known yet.
	Pending State = iota
	Granted
	Denied
)

func (s State) String() string {
	switch s {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "pending"
	}
}

// Verdict is what a guard decided. Redirect is set only when Denied.
type Verdict struct {
	State    State
	Redirect string
}

// Guard protects one route with a set of permitted roles.
type Guard struct {
	authz    Authorizer
	required []domain.Role
	fallback string
}

// NewGuard builds a guard that sends denied subjects to fallback.
func NewGuard(authz Authorizer, fallback string, required ...domain.Role) *Guard {
	return &Guard{
		authz:    authz,
		required: append([]domain.Role(nil), required...),
		fallback: fallback,
	}
}

// Required returns the roles the guard admits.
func (g *Guard) Required() []domain.Role {
	return append([]domain.Role(nil), g.required...)
}

// Evaluate never waits: an unloaded role yields Pending and the caller
// decides how to proceed.
func (g *Guard) Evaluate(s *Subject) Verdict {
	if s == nil || (s.Role == "" && !(g.authz.AdminOverride && s.SuperAdmin)) {
		return Verdict{State: Pending}
	}
	if g.authz.Allows(s, g.required) {
		return Verdict{State: Granted}
	}
	return Verdict{State: Denied, Redirect: g.fallback}
}
