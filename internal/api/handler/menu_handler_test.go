package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/servicedesk/backoffice/internal/core/domain"
)

type stubMenuService struct {
	items []domain.MenuItem
	seen  *domain.Session
}

func (s *stubMenuService) Menu(session *domain.Session) []domain.MenuItem {
	s.seen = session
	return s.items
}

func TestMenuHandler_Menu(t *testing.T) {
	stub := &stubMenuService{items: []domain.MenuItem{{Key: "dashboard", Label: "Dashboard", Path: "/"}}}
	handler := NewMenuHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/v1/menu", "", reviewer)
	if err := handler.Menu(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.seen != reviewer {
		t.Fatal("menu service did not receive the caller session")
	}
	if !strings.Contains(rec.Body.String(), `"key":"dashboard"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMenuHandler_Menu_EmptyIsArray(t *testing.T) {
	handler := NewMenuHandler(&stubMenuService{})

	c, rec := newTestContext(http.MethodGet, "/v1/menu", "", reviewer)
	if err := handler.Menu(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}
