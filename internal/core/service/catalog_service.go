package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

// CatalogService handles client intake and the functionality catalog.
type CatalogService struct {
	clients ports.ClientRepository
	catalog ports.FunctionalityRepository
	logger  zerolog.Logger
}

func NewCatalogService(clients ports.ClientRepository, catalog ports.FunctionalityRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{clients: clients, catalog: catalog, logger: logger}
}

func (s *CatalogService) CreateClient(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	if in.Session == nil || in.Session.TenantID == "" {
		return nil, domain.ErrForbidden
	}
	doc := digitsOnly(in.Document)
	if len(doc) != 11 && len(doc) != 14 {
		return nil, fmt.Errorf("%w: document must be a CPF (11 digits) or CNPJ (14 digits)", domain.ErrInvalidClient)
	}

	now := time.Now().UTC()
	c := &domain.Client{
		ID:        uuid.NewString(),
		TenantID:  in.Session.TenantID,
		Name:      strings.TrimSpace(in.Name),
		Document:  doc,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", c.ID).Str("tenant_id", c.TenantID).Msg("client created")
	return c, nil
}

// GetClient returns a client of the session's tenant. CLIENT sessions may
// only read their own record.
func (s *CatalogService) GetClient(ctx context.Context, session *domain.Session, id string) (*domain.Client, error) {
	if session == nil {
		return nil, domain.ErrForbidden
	}
	if scope := session.ClientScope(); scope != "" && scope != id {
		return nil, domain.ErrClientNotFound
	}
	return s.clients.FindByID(ctx, id, session.TenantScope())
}

func (s *CatalogService) ListClients(ctx context.Context, session *domain.Session, search string) ([]*domain.Client, error) {
	if session == nil {
		return nil, domain.ErrForbidden
	}
	return s.clients.List(ctx, session.TenantScope(), strings.TrimSpace(search))
}

func (s *CatalogService) CreateFunctionality(ctx context.Context, in ports.CreateFunctionalityInput) (*domain.Functionality, error) {
	if in.Session == nil || in.Session.TenantID == "" {
		return nil, domain.ErrForbidden
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidFunctionality)
	}

	f := &domain.Functionality{
		ID:          uuid.NewString(),
		TenantID:    in.Session.TenantID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.catalog.Create(ctx, f); err != nil {
		return nil, err
	}

	s.logger.Info().Str("functionality_id", f.ID).Str("price", f.Price.String()).Msg("functionality created")
	return f, nil
}

func (s *CatalogService) ListFunctionalities(ctx context.Context, session *domain.Session, activeOnly bool) ([]*domain.Functionality, error) {
	if session == nil {
		return nil, domain.ErrForbidden
	}
	return s.catalog.List(ctx, session.TenantScope(), activeOnly)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
