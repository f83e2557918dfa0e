package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bookhive/bookstore-api/internal/client/apiclient"
	"github.com/bookhive/bookstore-api/internal/core/domain"
)

func newBooksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse the catalog (requires login)",
	}
	cmd.AddCommand(newBooksListCmd(app), newBooksShowCmd(app), newBooksBuyCmd(app))
	return cmd
}

func newBooksListCmd(app *App) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireCatalog(); err != nil {
				return err
			}
			books, err := app.API.ListBooks(cmd.Context(), category)
			if err != nil {
				return err
			}
			printBooks(app, books)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only show this category")
	return cmd
}

func newBooksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireCatalog(); err != nil {
				return err
			}
			b, err := app.API.GetBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.printf("%s\n%s\ncategory: %s\nprice:    %s\n", b.Title, b.Description, b.Category, price(b.Price))
			if b.Image != "" {
				app.printf("image:    %s\n", b.Image)
			}
			return nil
		},
	}
}

func newBooksBuyCmd(app *App) *cobra.Command {
	var card apiclient.Card
	var key string
	cmd := &cobra.Command{
		Use:   "buy <id>",
		Short: "Buy a book (simulated, no payment is taken)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireCatalog()
			if err != nil {
				return err
			}
			p, err := app.API.Purchase(cmd.Context(), id.Token, args[0], card, key)
			if err != nil {
				return err
			}
			app.printf("Purchased %s for %s with card ending %s.\n", p.BookName, price(p.Amount), p.CardLast4)
			return nil
		},
	}
	cmd.Flags().StringVar(&card.Number, "card", "", "card number")
	cmd.Flags().StringVar(&card.Expiry, "expiry", "", "card expiry MM/YY")
	cmd.Flags().StringVar(&card.CVV, "cvv", "", "card security code")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "reject a repeat of this purchase")
	_ = cmd.MarkFlagRequired("card")
	_ = cmd.MarkFlagRequired("expiry")
	_ = cmd.MarkFlagRequired("cvv")
	return cmd
}

func printBooks(app *App, books []domain.Book) {
	if len(books) == 0 {
		app.printf("No books.\n")
		return
	}
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRICE")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Category, price(b.Price))
	}
	_ = w.Flush()
}

func price(p float64) string {
	if p == 0 {
		return "free"
	}
	return fmt.Sprintf("$%.2f", p)
}
