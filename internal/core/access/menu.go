package access

import "github.com/servicedesk/backoffice/internal/core/domain"

// FilterMenu returns the part of items visible to s. Entries keep their
// original order and the result shares no slices with the input, so the
// static tree can be filtered again on every role change.
func (a Authorizer) FilterMenu(items []domain.MenuItem, s *Subject) []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if !a.Allows(s, item.RequiredRoles) {
			continue
		}
		kept := item
		kept.RequiredRoles = append([]domain.Role(nil), item.RequiredRoles...)
		kept.Children = nil
		if children := a.FilterMenu(item.Children, s); len(children) > 0 {
			kept.Children = children
		}
		out = append(out, kept)
	}
	return out
}
