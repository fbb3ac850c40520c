package cli

import (
	"github.com/sikahq/sikapos/internal/config"
	"github.com/sikahq/sikapos/internal/salesync"
	"github.com/sikahq/sikapos/internal/store"
)

// appContext wires configuration, the memoized store loader, and the
// sync engine for one CLI invocation. Commands share one loader so the
// snapshot is restored at most once per process.
type appContext struct {
	cfg    config.Config
	loader *store.Loader
}

func newAppContext() (*appContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load configuration", err)
	}

	slot, err := store.NewFileSlot(cfg.DataDir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open data directory", err)
	}

	return &appContext{
		cfg:    cfg,
		loader: store.NewLoader(slot),
	}, nil
}

func (a *appContext) store() (*store.Store, error) {
	st, err := a.loader.Get()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open local store", err)
	}
	return st, nil
}

func (a *appContext) syncEngine(st *store.Store) *salesync.Engine {
	return salesync.NewEngine(st, a.cfg.SalesAPIURL, nil, nil)
}
