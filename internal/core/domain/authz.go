package domain

// The predicates below are shared by the server (middleware and services) and
// the client route guard. Server callers must pass an identity re-loaded from
// the credential store, never one rebuilt from token claims alone.

// CanViewCourseCatalog reports whether id may browse the catalog.
func CanViewCourseCatalog(id *Identity) bool {
	return id != nil
}

// CanViewDashboard reports whether id may reach the admin dashboard.
func CanViewDashboard(id *Identity) bool {
	return id != nil && id.IsAdmin
}

// CanMutateBook reports whether id may create, update or delete books.
func CanMutateBook(id *Identity) bool {
	return CanViewDashboard(id)
}

// CanToggleUserRole reports whether actor may change targetUserID's admin flag.
// Any admin may; revoking is further restricted by CanSetUserAdmin.
func CanToggleUserRole(actor *Identity, targetUserID string) bool {
	return CanViewDashboard(actor)
}

// CanSetUserAdmin applies CanToggleUserRole and the self-demotion guard.
func CanSetUserAdmin(actor *Identity, targetUserID string, isAdmin bool) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !CanToggleUserRole(actor, targetUserID) {
		return ErrForbidden
	}
	if !isAdmin && actor.ID == targetUserID {
		return ErrSelfDemotion
	}
	return nil
}
