package domain

import "time"

// User models an authenticated back-office actor.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	SuperAdmin   bool      `json:"super_admin"`
	TenantID     string    `json:"tenant_id"`
	ClientID     string    `json:"client_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is the identity of the caller for one request. It is built from the
// verified token and handed explicitly to every service that needs it.
type Session struct {
	UserID     string
	Email      string
	Role       Role
	SuperAdmin bool
	TenantID   string
	ClientID   string
}

// TenantScope returns the tenant filter to apply for this session; super
// admins see every tenant.
func (s *Session) TenantScope() string {
	if s == nil || s.SuperAdmin {
		return ""
	}
	return s.TenantID
}

// ClientScope returns the client filter to apply; only CLIENT sessions are
// restricted to their own records.
func (s *Session) ClientScope() string {
	if s == nil || s.Role != RoleClient {
		return ""
	}
	return s.ClientID
}
