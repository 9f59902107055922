package ports

import (
	"context"

	"github.com/servicedesk/backoffice/internal/core/domain"
)

// RegisterInput carries the fields of a new back-office user.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	SuperAdmin bool
	TenantID   string
	ClientID   string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
