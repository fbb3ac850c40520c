package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sikahq/sikapos/internal/receipt"
	"github.com/sikahq/sikapos/internal/store"
)

// ReceiptOptions holds flags for the receipt command.
type ReceiptOptions struct {
	*RootOptions
}

// NewReceiptCommand creates the receipt command.
func NewReceiptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReceiptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "receipt <sale-id>",
		Short:         "Render the receipt for a stored sale",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReceipt(cmd, opts, args[0])
		},
	}

	return cmd
}

func runReceipt(cmd *cobra.Command, opts *ReceiptOptions, saleID string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	st, err := app.store()
	if err != nil {
		return err
	}

	sale, err := st.ReadSale(context.Background(), saleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewExitError(ExitFailure, fmt.Sprintf("sale %s not found", saleID))
		}
		return WrapExitError(ExitFailure, "read sale", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(sale)
	}

	renderer := receipt.NewRenderer(app.cfg.Shop)
	fmt.Fprint(cmd.OutOrStdout(), renderer.Render(sale))
	return nil
}
