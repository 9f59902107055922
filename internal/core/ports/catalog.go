package ports

import (
	"context"

	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
)

// ClientRepository persists tenant clients. An empty tenantID disables the
// tenant filter.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	FindByID(ctx context.Context, id, tenantID string) (*domain.Client, error)
	List(ctx context.Context, tenantID, search string) ([]*domain.Client, error)
}

// FunctionalityRepository persists the billable service catalog.
type FunctionalityRepository interface {
	Create(ctx context.Context, f *domain.Functionality) error
	FindByID(ctx context.Context, id, tenantID string) (*domain.Functionality, error)
	List(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.Functionality, error)
}

// CreateClientInput carries client intake data.
type CreateClientInput struct {
	Session  *domain.Session
	Name     string
	Document string
	Email    string
	Phone    string
}

// CreateFunctionalityInput carries a new catalog entry.
type CreateFunctionalityInput struct {
	Session     *domain.Session
	Name        string
	Description string
	Price       billing.Amount
}

// CatalogService exposes client intake and the functionality catalog.
type CatalogService interface {
	CreateClient(ctx context.Context, in CreateClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, session *domain.Session, id string) (*domain.Client, error)
	ListClients(ctx context.Context, session *domain.Session, search string) ([]*domain.Client, error)
	CreateFunctionality(ctx context.Context, in CreateFunctionalityInput) (*domain.Functionality, error)
	ListFunctionalities(ctx context.Context, session *domain.Session, activeOnly bool) ([]*domain.Functionality, error)
}
