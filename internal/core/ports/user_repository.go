package ports

import (
	"context"

	"github.com/servicedesk/backoffice/internal/core/domain"
)

// UserRepository persists back-office accounts. E-mails are stored
// lower-cased; Create reports domain.ErrUserExists on a taken address and
// FindByEmail reports domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
