package domain

import (
	"errors"
	"testing"
)

func TestCanViewDashboard_Exhaustive(t *testing.T) {
	cases := []struct {
		name string
		id   *Identity
		want bool
	}{
		{"nil identity", nil, false},
		{"regular user", &Identity{ID: "u1", IsAdmin: false}, false},
		{"admin", &Identity{ID: "u2", IsAdmin: true}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanViewDashboard(tc.id); got != tc.want {
				t.Fatalf("CanViewDashboard = %v, want %v", got, tc.want)
			}
			if got := CanMutateBook(tc.id); got != tc.want {
				t.Fatalf("CanMutateBook = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanViewCourseCatalog(t *testing.T) {
	if CanViewCourseCatalog(nil) {
		t.Fatalf("nil identity must not see the catalog")
	}
	for _, admin := range []bool{false, true} {
		if !CanViewCourseCatalog(&Identity{ID: "u", IsAdmin: admin}) {
			t.Fatalf("logged-in identity (admin=%v) must see the catalog", admin)
		}
	}
}

func TestCanToggleUserRole(t *testing.T) {
	admin := &Identity{ID: "a", IsAdmin: true}
	user := &Identity{ID: "u"}

	if !CanToggleUserRole(admin, "u") {
		t.Fatalf("admin should toggle other users")
	}
	if !CanToggleUserRole(admin, "a") {
		t.Fatalf("admin may target itself (promotion is a no-op)")
	}
	if CanToggleUserRole(user, "a") {
		t.Fatalf("non-admin must not toggle roles")
	}
	if CanToggleUserRole(nil, "a") {
		t.Fatalf("nil identity must not toggle roles")
	}
}

func TestCanSetUserAdmin(t *testing.T) {
	admin := &Identity{ID: "a", IsAdmin: true}

	cases := []struct {
		name    string
		actor   *Identity
		target  string
		isAdmin bool
		want    error
	}{
		{"admin promotes other", admin, "u", true, nil},
		{"admin demotes other", admin, "u", false, nil},
		{"admin re-promotes self", admin, "a", true, nil},
		{"admin demotes self", admin, "a", false, ErrSelfDemotion},
		{"user promotes self", &Identity{ID: "u"}, "u", true, ErrForbidden},
		{"anonymous", nil, "u", true, ErrUnauthenticated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanSetUserAdmin(tc.actor, tc.target, tc.isAdmin)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
