package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raborimet/crm-api/internal/apiclient"
)

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Manage quotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var quotesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := requireAccess(cmd.Context(), apiclient.PolicyAuthenticated)
		if err != nil {
			return err
		}
		page, err := rt.client.ListQuotes(cmd.Context(), listParamsFromFlags(cmd))
		if err != nil {
			return err
		}
		if done, err := printResult(page); done {
			return err
		}
		table := newTable()
		fmt.Fprintln(table, "ID\tNUMBER\tTITLE\tSTATUS\tTOTAL")
		for _, q := range page.Quotes {
			fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%.2f\n", q.ID, q.QuoteNumber, q.Title, q.Status, q.Total)
		}
		if err := table.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d of %d quotes\n", len(page.Quotes), page.Total)
		return nil
	},
}

var quotesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one quote with its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		rt, err := requireAccess(cmd.Context(), apiclient.PolicyAuthenticated)
		if err != nil {
			return err
		}
		quote, err := rt.client.GetQuote(cmd.Context(), id)
		if err != nil {
			return err
		}
		if done, err := printResult(quote); done {
			return err
		}
		fmt.Printf("%s %s\nstatus: %s\n", quote.QuoteNumber, quote.Title, quote.Status)
		table := newTable()
		fmt.Fprintln(table, "DESCRIPTION\tQTY\tUNIT\tPRICE\tTOTAL")
		for _, item := range quote.Items {
			fmt.Fprintf(table, "%s\t%.2f\t%s\t%.2f\t%.2f\n",
				item.Description, item.Quantity, item.Unit, item.UnitPrice, item.LineTotal)
		}
		if err := table.Flush(); err != nil {
			return err
		}
		fmt.Printf("subtotal %.2f, tax %.2f, discount %.2f, total %.2f\n",
			quote.Subtotal, quote.TaxAmount, quote.Discount, quote.Total)
		return nil
	},
}

// newQuoteActionCmd builds send/accept/reject/duplicate. Quote lifecycle
// changes need the manager role or above.
func newQuoteActionCmd(use, short string, action func(context.Context, *apiclient.Client, int64) (*apiclient.Quote, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rt, err := requireAccess(cmd.Context(), apiclient.PolicyManagerOrAdmin)
			if err != nil {
				return err
			}
			quote, err := action(cmd.Context(), rt.client, id)
			if err != nil {
				return err
			}
			fmt.Printf("Quote %s is now %s\n", quote.QuoteNumber, quote.Status)
			return nil
		},
	}
}

func init() {
	addListFlags(quotesListCmd)
	quotesCmd.AddCommand(
		quotesListCmd,
		quotesGetCmd,
		newQuoteActionCmd("send", "Send a draft quote", func(ctx context.Context, c *apiclient.Client, id int64) (*apiclient.Quote, error) {
			return c.SendQuote(ctx, id)
		}),
		newQuoteActionCmd("accept", "Accept a sent quote", func(ctx context.Context, c *apiclient.Client, id int64) (*apiclient.Quote, error) {
			return c.AcceptQuote(ctx, id)
		}),
		newQuoteActionCmd("reject", "Reject a sent quote", func(ctx context.Context, c *apiclient.Client, id int64) (*apiclient.Quote, error) {
			return c.RejectQuote(ctx, id)
		}),
		newQuoteActionCmd("duplicate", "Copy a quote into a new draft", func(ctx context.Context, c *apiclient.Client, id int64) (*apiclient.Quote, error) {
			return c.DuplicateQuote(ctx, id)
		}),
	)
	rootCmd.AddCommand(quotesCmd)
}
