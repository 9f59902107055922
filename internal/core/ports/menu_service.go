package ports

import "github.com/servicedesk/backoffice/internal/core/domain"

// MenuService returns the navigation tree visible to a session.
type MenuService interface {
	Menu(session *domain.Session) []domain.MenuItem
}
