package domain

import (
	"time"

	"github.com/servicedesk/backoffice/internal/core/billing"
)

// Client is a customer registered under a tenant.
type Client struct {
	ID        string    `json:"id" bson:"_id"`
	TenantID  string    `json:"tenant_id" bson:"tenant_id"`
	Name      string    `json:"name" bson:"name"`
	Document  string    `json:"document" bson:"document"` // CPF or CNPJ, digits only
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Functionality is a billable service type offered in a tenant's catalog.
type Functionality struct {
	ID          string         `json:"id" bson:"_id"`
	TenantID    string         `json:"tenant_id" bson:"tenant_id"`
	Name        string         `json:"name" bson:"name"`
	Description string         `json:"description" bson:"description"`
	Price       billing.Amount `json:"price" bson:"price"`
	Active      bool           `json:"active" bson:"active"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
}
