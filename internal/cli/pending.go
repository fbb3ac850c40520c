package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sikahq/sikapos/internal/pos"
)

// PendingOptions holds flags for the pending command.
type PendingOptions struct {
	*RootOptions
	CountOnly bool
}

// NewPendingCommand creates the pending command.
func NewPendingCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PendingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List sales awaiting sync, oldest first",
		Long: `List unsynced sales in the order the sync engine will push them
(creation time ascending).

Example:
  sikapos pending
  sikapos pending --count`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPending(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.CountOnly, "count", false, "print only the number of pending sales")

	return cmd
}

type pendingReport struct {
	Count int        `json:"count"`
	Sales []pos.Sale `json:"sales,omitempty"`
}

func runPending(cmd *cobra.Command, opts *PendingOptions) error {
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

	ctx := context.Background()

	if opts.CountOnly {
		count, err := st.PendingCount(ctx)
		if err != nil {
			return WrapExitError(ExitFailure, "count pending sales", err)
		}
		if opts.Format == "json" {
			return formatter.Success(pendingReport{Count: count})
		}
		fmt.Fprintln(cmd.OutOrStdout(), count)
		return nil
	}

	sales, err := st.PendingSales(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "list pending sales", err)
	}

	if opts.Format == "json" {
		return formatter.Success(pendingReport{Count: len(sales), Sales: sales})
	}

	w := cmd.OutOrStdout()
	if len(sales) == 0 {
		fmt.Fprintln(w, "Nothing pending, all sales are synced.")
		return nil
	}

	for _, sale := range sales {
		fmt.Fprintf(w, "%s  %s %s  ₵%.2f  (%d items)\n",
			sale.ReceiptNumber, sale.Date, sale.Time, sale.TotalAmount, len(sale.Items))
	}
	fmt.Fprintf(w, "\n%d pending\n", len(sales))
	return nil
}
