package service

import (
	"github.com/servicedesk/backoffice/internal/core/access"
	"github.com/servicedesk/backoffice/internal/core/domain"
)

// MenuService serves the static navigation tree filtered per session.
type MenuService struct {
	items []domain.MenuItem
	authz access.Authorizer
}

func NewMenuService(items []domain.MenuItem, authz access.Authorizer) *MenuService {
	return &MenuService{items: items, authz: authz}
}

// Menu returns a fresh filtered copy; the configured tree is never modified.
func (s *MenuService) Menu(session *domain.Session) []domain.MenuItem {
	return s.authz.FilterMenu(s.items, access.SubjectOf(session))
}
