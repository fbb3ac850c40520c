package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sikahq/sikapos/internal/mockapi"
)

// MockAPIOptions holds flags for the mock-api command.
type MockAPIOptions struct {
	*RootOptions
	Addr      string
	FailAfter int
}

// NewMockAPICommand creates the mock-api development server command.
func NewMockAPICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MockAPIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Run a local stand-in for the remote backend",
		Long: `Serve the sale acceptance and product catalog endpoints locally, for
developing and testing the offline-first flow without the real backend.

Accepted sales are deduplicated by receipt number, matching the
contract the sync engine's at-least-once delivery relies on.

Example:
  sikapos mock-api --addr :3000
  sikapos mock-api --addr :3000 --fail-after 2`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockAPI(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":3000", "listen address")
	cmd.Flags().IntVar(&opts.FailAfter, "fail-after", 0,
		"accept this many sales then reject the rest (0 = accept all)")

	return cmd
}

func runMockAPI(cmd *cobra.Command, opts *MockAPIOptions) error {
	server := mockapi.New(mockapi.Options{FailAfter: opts.FailAfter})
	router := server.Router()

	fmt.Fprintf(cmd.OutOrStdout(), "mock backend listening on %s\n", opts.Addr)
	if err := router.Run(opts.Addr); err != nil {
		return WrapExitError(ExitCommandError, "mock api server", err)
	}
	return nil
}
