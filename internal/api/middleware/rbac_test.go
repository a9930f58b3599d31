package middleware

import (
	"errors"
	"testing"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

func TestAuthorize_AdminAllowed(t *testing.T) {
	_, called, err := runGate(t, "Bearer "+issue(t, 1, domain.RoleAdmin), domain.RoleAdmin)
	if err != nil || !called {
		t.Fatalf("admin should pass: called=%v err=%v", called, err)
	}
}

func TestAuthorize_BuyerForbidden(t *testing.T) {
	_, called, err := runGate(t, "Bearer "+issue(t, 2, domain.RoleBuyer), domain.RoleAdmin)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
}

func TestAuthorize_RoleCheckedBeforeUserLookup(t *testing.T) {
	// User 99 does not exist; a buyer token must still be rejected as forbidden.
	_, _, err := runGate(t, "Bearer "+issue(t, 99, domain.RoleBuyer), domain.RoleAdmin)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorize_StaleRoleClaimWins(t *testing.T) {
	// User 2 is stored as buyer but holds a token minted while admin.
	_, called, err := runGate(t, "Bearer "+issue(t, 2, domain.RoleAdmin), domain.RoleAdmin)
	if err != nil || !called {
		t.Fatalf("stale admin token should pass: called=%v err=%v", called, err)
	}
}

func TestRoleSet(t *testing.T) {
	if !newRoleSet(nil).permits("anything") {
		t.Fatalf("empty set must permit every role")
	}
	s := newRoleSet([]string{domain.RoleAdmin})
	if s.permits(domain.RoleBuyer) || !s.permits(domain.RoleAdmin) {
		t.Fatalf("unexpected permits result")
	}
}
