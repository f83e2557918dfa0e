package cli

import (
	"github.com/spf13/cobra"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// NewRootCmd builds the command tree bound to app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "bookstore",
		Short:         "Bookstore client",
		Long:          "Browse and buy books, and manage the store from the admin dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.Out = cmd.OutOrStdout()
			app.Err = cmd.ErrOrStderr()
		},
	}

	root.AddCommand(
		newSignupCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newBooksCmd(app),
		newDashboardCmd(app),
	)
	return root
}

// announce prints a line whenever the cached identity changes.
func announce(app *App) func() {
	return app.Session.Subscribe(func(id *domain.Identity) {
		if id == nil {
			app.printf("Logged out.\n")
			return
		}
		role := "user"
		if id.IsAdmin {
			role = "admin"
		}
		app.printf("Logged in as %s (%s).\n", id.Email, role)
	})
}
