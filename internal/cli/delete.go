package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
}

// NewDeleteCommand creates the delete command. Deleting a sale removes
// its line items too; deleting an unknown id is a silent no-op.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <sale-id>",
		Short:         "Delete a sale and its line items",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, opts, args[0])
		},
	}

	return cmd
}

func runDelete(cmd *cobra.Command, opts *DeleteOptions, saleID string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	st, err := app.store()
	if err != nil {
		return err
	}

	if err := st.DeleteSale(context.Background(), saleID); err != nil {
		return WrapExitError(ExitFailure, "delete sale", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(map[string]string{"deleted": saleID})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted sale %s.\n", saleID)
	return nil
}
