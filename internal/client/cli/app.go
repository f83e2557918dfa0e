// Package cli implements the bookstore command-line client.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/bookhive/bookstore-api/internal/client/apiclient"
	"github.com/bookhive/bookstore-api/internal/client/session"
	"github.com/bookhive/bookstore-api/internal/core/domain"
)

var (
	// ErrLoginRequired is returned by guarded commands when no identity is cached.
	ErrLoginRequired = errors.New("you need an account to do that: run `bookstore signup` or `bookstore login`")
	// ErrAdminRequired is returned by dashboard commands for non-admin identities.
	ErrAdminRequired = errors.New("the dashboard is for admins only: log in with an admin account")
)

// App is the state every command shares. Commands read and write the identity
// only through Session.
type App struct {
	Session *session.Store
	API     *apiclient.Client
	Out     io.Writer
	Err     io.Writer
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

// guard loads the cached identity and checks it with allow. A nil identity
// maps to ErrLoginRequired, a rejected one to denied.
func (a *App) guard(allow func(*domain.Identity) bool, denied error) (*domain.Identity, error) {
	id, err := a.Session.Get()
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrLoginRequired
	}
	if !allow(id) {
		return nil, denied
	}
	return id, nil
}

func (a *App) requireCatalog() (*domain.Identity, error) {
	return a.guard(domain.CanViewCourseCatalog, ErrLoginRequired)
}

func (a *App) requireDashboard() (*domain.Identity, error) {
	return a.guard(domain.CanViewDashboard, ErrAdminRequired)
}
