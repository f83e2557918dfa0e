package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bookhive/bookstore-api/internal/client/apiclient"
)

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Admin dashboard (requires an admin account)",
	}
	cmd.AddCommand(
		newUsersCmd(app),
		newSetAdminCmd(app, "promote", true),
		newSetAdminCmd(app, "demote", false),
		newCreateAdminCmd(app),
		newAddBookCmd(app),
		newEditBookCmd(app),
		newRemoveBookCmd(app),
	)
	return cmd
}

func newUsersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireDashboard()
			if err != nil {
				return err
			}
			users, err := app.API.ListUsers(cmd.Context(), id.Token)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tADMIN")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", u.ID, u.Fullname, u.Email, u.IsAdmin)
			}
			return w.Flush()
		},
	}
}

func newSetAdminCmd(app *App, use string, isAdmin bool) *cobra.Command {
	short := "Grant admin rights to a user"
	if !isAdmin {
		short = "Revoke admin rights from a user"
	}
	return &cobra.Command{
		Use:   use + " <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireDashboard()
			if err != nil {
				return err
			}
			u, err := app.API.SetUserAdmin(cmd.Context(), id.Token, args[0], isAdmin)
			if err != nil {
				return err
			}
			app.printf("%s admin: %t\n", u.Email, u.IsAdmin)
			return nil
		},
	}
}

func newCreateAdminCmd(app *App) *cobra.Command {
	var creds apiclient.Credentials
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create another admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireDashboard()
			if err != nil {
				return err
			}
			u, err := app.API.CreateAdmin(cmd.Context(), id.Token, creds)
			if err != nil {
				return err
			}
			app.printf("Created admin %s (%s).\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Fullname, "name", "", "full name")
	cmd.Flags().StringVar(&creds.Email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// bookForm collects the book flags. The price is only sent when --price was
// given, so an omitted price is rejected by the server rather than zeroed.
type bookForm struct {
	payload apiclient.BookPayload
	price   float64
}

func (f *bookForm) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.payload.Name, "name", "", "short name")
	cmd.Flags().StringVar(&f.payload.Title, "title", "", "title")
	cmd.Flags().StringVar(&f.payload.Category, "category", "", "category")
	cmd.Flags().Float64Var(&f.price, "price", 0, "price, 0 for free")
	cmd.Flags().StringVar(&f.payload.Description, "description", "", "description")
	cmd.Flags().StringVar(&f.payload.Image, "image", "", "cover image URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("category")
}

func (f *bookForm) build(cmd *cobra.Command) apiclient.BookPayload {
	b := f.payload
	if cmd.Flags().Changed("price") {
		p := f.price
		b.Price = &p
	}
	return b
}

func newAddBookCmd(app *App) *cobra.Command {
	var form bookForm
	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Add a book to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireDashboard()
			if err != nil {
				return err
			}
			book, err := app.API.CreateBook(cmd.Context(), id.Token, form.build(cmd))
			if err != nil {
				return err
			}
			app.printf("Added %s (%s).\n", book.Title, book.ID)
			return nil
		},
	}
	form.bind(cmd)
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newEditBookCmd(app *App) *cobra.Command {
	var form bookForm
	cmd := &cobra.Command{
		Use:   "edit-book <id>",
		Short: "Replace a book's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireDashboard()
			if err != nil {
				return err
			}
			book, err := app.API.UpdateBook(cmd.Context(), id.Token, args[0], form.build(cmd))
			if err != nil {
				return err
			}
			app.printf("Updated %s: %s, %s.\n", book.ID, book.Title, price(book.Price))
			return nil
		},
	}
	form.bind(cmd)
	return cmd
}

func newRemoveBookCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-book <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireDashboard()
			if err != nil {
				return err
			}
			if err := app.API.DeleteBook(cmd.Context(), id.Token, args[0]); err != nil {
				return err
			}
			app.printf("Deleted %s.\n", args[0])
			return nil
		},
	}
}
