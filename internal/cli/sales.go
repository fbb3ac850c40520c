package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sikahq/sikapos/internal/pos"
)

// SalesOptions holds flags for the sales command.
type SalesOptions struct {
	*RootOptions
}

// NewSalesCommand creates the sales history command.
func NewSalesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SalesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "List all sales, most recent first",
		Long: `List every locally stored sale with its line items, ordered by
creation time descending, followed by a revenue summary.

Example:
  sikapos sales
  sikapos sales --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSales(cmd, opts)
		},
	}

	return cmd
}

type salesReport struct {
	Sales   []pos.Sale  `json:"sales"`
	Summary pos.Summary `json:"summary"`
}

func runSales(cmd *cobra.Command, opts *SalesOptions) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	st, err := app.store()
	if err != nil {
		return err
	}

	sales, err := st.AllSales(context.Background())
	if err != nil {
		return WrapExitError(ExitFailure, "list sales", err)
	}

	summary := pos.Summarize(sales, time.Now())

	if opts.Format == "json" {
		return formatter.Success(salesReport{Sales: sales, Summary: summary})
	}

	w := cmd.OutOrStdout()
	if len(sales) == 0 {
		fmt.Fprintln(w, "No sales recorded yet.")
		return nil
	}

	for _, sale := range sales {
		status := "pending"
		if sale.Synced {
			status = "synced"
		}
		fmt.Fprintf(w, "%s  %s %s  %-12s  ₵%.2f  [%s]\n",
			sale.ReceiptNumber, sale.Date, sale.Time, sale.PaymentMethod, sale.TotalAmount, status)
		for _, item := range sale.Items {
			fmt.Fprintf(w, "    %d x %s @ ₵%.2f\n", item.Quantity, item.Name, item.Price)
		}
	}

	fmt.Fprintf(w, "\n%d sales, revenue ₵%.2f (today: %d sales, ₵%.2f), %d pending\n",
		summary.TotalSales, summary.TotalRevenue, summary.TodaySales, summary.TodayRevenue, summary.PendingSales)
	return nil
}
