package access

import (
	"testing"

	"github.com/servicedesk/backoffice/internal/core/domain"
)

func TestIsAuthorized(t *testing.T) {
	cases := []struct {
		name     string
		role     domain.Role
		required []domain.Role
		want     bool
	}{
		{"no restriction", domain.RoleUser, nil, true},
		{"no restriction, absent role", "", nil, true},
		{"empty restriction", domain.RoleClient, []domain.Role{}, true},
		{"absent role restricted", "", []domain.Role{domain.RoleAdmin}, false},
		{"manager not admin", domain.RoleManagerReviewers, []domain.Role{domain.RoleAdmin}, false},
		{"admin listed", domain.RoleAdmin, []domain.Role{domain.RoleAdmin, domain.RoleManagerReviewers}, true},
		{"manager listed second", domain.RoleManagerReviewers, []domain.Role{domain.RoleAdmin, domain.RoleManagerReviewers}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAuthorized(tc.role, tc.required); got != tc.want {
				t.Errorf("IsAuthorized(%q, %v) = %v, want %v", tc.role, tc.required, got, tc.want)
			}
		})
	}
}

func TestIsAuthorized_EveryRoleWithoutRestriction(t *testing.T) {
	for _, r := range domain.Roles {
		if !IsAuthorized(r, nil) {
			t.Errorf("role %s denied on unrestricted resource", r)
		}
	}
}

func TestAuthorizer_AdminOverride(t *testing.T) {
	root := &Subject{Role: domain.RoleUser, SuperAdmin: true}
	adminOnly := []domain.Role{domain.RoleAdmin}

	if NewAuthorizer(false).Allows(root, adminOnly) {
		t.Error("override disabled: super admin flag must be ignored")
	}
	if !NewAuthorizer(true).Allows(root, adminOnly) {
		t.Error("override enabled: super admin must be allowed")
	}

	plain := &Subject{Role: domain.RoleUser}
	if NewAuthorizer(true).Allows(plain, adminOnly) {
		t.Error("override must not apply to subjects without the flag")
	}
}

func TestAuthorizer_NilSubject(t *testing.T) {
	a := NewAuthorizer(true)
	if !a.Allows(nil, nil) {
		t.Error("nil subject must pass an unrestricted resource")
	}
	if a.Allows(nil, []domain.Role{domain.RoleUser}) {
		t.Error("nil subject must be denied a restricted resource")
	}
}

func TestSubjectOf(t *testing.T) {
	if SubjectOf(nil) != nil {
		t.Fatal("nil session must give nil subject")
	}
	s := SubjectOf(&domain.Session{Role: domain.RoleClient, SuperAdmin: true, TenantID: "t"})
	if s.Role != domain.RoleClient || !s.SuperAdmin {
		t.Fatalf("unexpected subject: %+v", s)
	}
}
