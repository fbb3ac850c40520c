package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sikahq/sikapos/internal/catalog"
)

// ProductsOptions holds flags for the products command.
type ProductsOptions struct {
	*RootOptions
}

// NewProductsCommand creates the products command.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "products",
		Short:         "Fetch the product catalog from the backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProducts(cmd, opts)
		},
	}

	return cmd
}

func runProducts(cmd *cobra.Command, opts *ProductsOptions) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	client := catalog.NewClient(app.cfg.ProductsAPIURL, nil)
	products, err := client.Fetch(context.Background())
	if err != nil {
		return WrapExitError(ExitFailure, "fetch products", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(products)
	}

	w := cmd.OutOrStdout()
	for _, p := range products {
		fmt.Fprintf(w, "%-12s ₵%8.2f  %s\n", p.ID, p.SellingPrice, p.Name)
	}
	fmt.Fprintf(w, "\n%d products\n", len(products))
	return nil
}
