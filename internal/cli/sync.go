package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sikahq/sikapos/internal/salesync"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	AssumeOnline bool
}

// NewSyncCommand creates the sync command (the manual sync trigger).
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push pending sales to the backend",
		Long: `Push every pending sale to the remote sales endpoint, oldest first,
one request at a time. A sale that fails is reported and skipped; the
rest of the batch continues. Successfully pushed sales are marked
synced immediately.

Exit codes: 0 all pending sales synced, 1 offline or partial failure.

Example:
  sikapos sync
  sikapos sync --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.AssumeOnline, "assume-online", false,
		"skip the connectivity probe and attempt the push regardless")

	return cmd
}

func runSync(cmd *cobra.Command, opts *SyncOptions) error {
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

	var probe salesync.Probe
	if opts.AssumeOnline {
		probe = salesync.StaticProbe(true)
	}
	engine := salesync.NewEngine(st, app.cfg.SalesAPIURL, probe, nil)

	result, err := engine.SyncPending(context.Background())
	if err != nil {
		if errors.Is(err, salesync.ErrOffline) {
			_ = formatter.Error("offline", err.Error(), nil)
			return NewExitError(ExitFailure, "device is offline")
		}
		return WrapExitError(ExitFailure, "sync", err)
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		if result.Total == 0 {
			fmt.Fprintln(w, "Nothing to sync.")
		} else {
			fmt.Fprintf(w, "Synced %d of %d pending sales.\n", result.Synced, result.Total)
			for _, msg := range result.Errors {
				fmt.Fprintf(w, "  failed: %s\n", msg)
			}
		}
	}

	if len(result.Errors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d sales failed to sync", len(result.Errors)))
	}
	return nil
}
