package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sikahq/sikapos/internal/pos"
	"github.com/sikahq/sikapos/internal/receipt"
	"github.com/sikahq/sikapos/internal/salesync"
)

// SellOptions holds flags for the sell command.
type SellOptions struct {
	*RootOptions
	CartFile string
	User     string
	NoSync   bool
}

// CartFile is the YAML shape of a cart handed to `sikapos sell`.
type CartFile struct {
	Items         []pos.CartItem `yaml:"items"`
	Discount      float64        `yaml:"discount"`
	PaymentMethod string         `yaml:"paymentMethod"`
	CustomerName  string         `yaml:"customerName"`
}

// NewSellCommand creates the sell command.
func NewSellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SellOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Complete a sale from a cart file",
		Long: `Complete a sale: persist it locally with synced=false, print the
receipt, and push it to the backend right away when the device is online.

The cart file is YAML:

  items:
    - id: prod-001
      name: Bottled Water 500ml
      price: 2.50
      quantity: 2
  discount: 0
  paymentMethod: CASH
  customerName: Ama

Example:
  sikapos sell --cart cart.yaml
  sikapos sell --cart cart.yaml --no-sync`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSell(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.CartFile, "cart", "", "path to the YAML cart file (required)")
	cmd.Flags().StringVar(&opts.User, "user", "", "operator id (defaults to offline-user)")
	cmd.Flags().BoolVar(&opts.NoSync, "no-sync", false, "skip the post-sale sync attempt")
	_ = cmd.MarkFlagRequired("cart")

	return cmd
}

func runSell(cmd *cobra.Command, opts *SellOptions) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(opts.CartFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "read cart file", err)
	}

	var cart CartFile
	if err := yaml.Unmarshal(data, &cart); err != nil {
		return WrapExitError(ExitCommandError, "parse cart file", err)
	}

	sale, err := pos.NewSale(
		time.Now(),
		opts.User,
		cart.Items,
		cart.Discount,
		pos.PaymentMethod(cart.PaymentMethod),
		cart.CustomerName,
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid cart", err)
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
	if err := st.SaveSale(ctx, sale); err != nil {
		return WrapExitError(ExitFailure, "save sale", err)
	}

	formatter.VerboseLog("sale %s saved (receipt %s)", sale.ID, sale.ReceiptNumber)

	// Post-sale sync attempt while already online; offline is the
	// normal offline-first case, not a failure.
	if !opts.NoSync {
		result, err := app.syncEngine(st).SyncPending(ctx)
		switch {
		case errors.Is(err, salesync.ErrOffline):
			formatter.VerboseLog("offline, sale kept pending")
		case errors.Is(err, salesync.ErrSyncInProgress):
			formatter.VerboseLog("sync already running, sale kept pending")
		case err != nil:
			formatter.VerboseLog("post-sale sync failed: %v", err)
		default:
			formatter.VerboseLog("post-sale sync: %d/%d synced", result.Synced, result.Total)
		}
	}

	if opts.Format == "json" {
		// Re-read so the reported synced flag reflects the post-sale sync.
		stored, err := st.ReadSale(ctx, sale.ID)
		if err != nil {
			stored = sale
		}
		return formatter.Success(stored)
	}

	renderer := receipt.NewRenderer(app.cfg.Shop)
	fmt.Fprint(cmd.OutOrStdout(), renderer.Render(sale))
	return nil
}
