package cli

import (
	"github.com/spf13/cobra"

	"github.com/bookhive/bookstore-api/internal/client/apiclient"
)

func newSignupCmd(app *App) *cobra.Command {
	var creds apiclient.Credentials
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.API.Signup(cmd.Context(), creds)
			if err != nil {
				return err
			}
			defer announce(app)()
			return app.Session.Set(id)
		},
	}
	cmd.Flags().StringVar(&creds.Fullname, "name", "", "full name")
	cmd.Flags().StringVar(&creds.Email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password")
	cmd.Flags().StringVar(&creds.AdminKey, "admin-key", "", "escalation secret; creates an admin account")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.API.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			defer announce(app)()
			return app.Session.Set(id)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer announce(app)()
			return app.Session.Clear()
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the cached identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Session.Get()
			if err != nil {
				return err
			}
			if id == nil {
				app.printf("Not logged in.\n")
				return nil
			}
			app.printf("%s <%s>\nid:    %s\nadmin: %t\n", id.Fullname, id.Email, id.ID, id.IsAdmin)
			return nil
		},
	}
}
