package session

import (
	"context"
	"testing"
)

func TestFromContextDefaultsToAnonymous(t *testing.T) {
	s := FromContext(context.Background())
	if s.Authenticated() || s.IsAdmin() {
		t.Fatalf("expected anonymous session, got %+v", s)
	}
}

func TestRoles(t *testing.T) {
	tests := map[string]struct {
		s         Session
		wantAuth  bool
		wantAdmin bool
	}{
		"customer":           {Session{UserID: "u1", Role: RoleCustomer}, true, false},
		"admin":              {Session{UserID: "u2", Role: ParseRole("Admin")}, true, true},
		"admin without user": {Session{Role: RoleAdmin}, false, false},
		"unknown role":       {Session{UserID: "u3", Role: ParseRole("superuser")}, true, false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := WithSession(context.Background(), tc.s)
			got := FromContext(ctx)
			if got.Authenticated() != tc.wantAuth || got.IsAdmin() != tc.wantAdmin {
				t.Fatalf("got auth=%v admin=%v", got.Authenticated(), got.IsAdmin())
			}
		})
	}
}
