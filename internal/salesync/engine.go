// Package salesync pushes pending sales to the remote acceptance
// endpoint. Sync is a one-directional best-effort push with per-sale
// error aggregation: one sale's failure never aborts the batch, and a
// successful push is marked synced immediately so a crash mid-batch
// leaves only the unpushed tail pending.
package salesync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sikahq/sikapos/internal/store"
)

// ErrOffline is returned when the connectivity precondition fails. No
// network calls are made and no state changes.
var ErrOffline = errors.New("device is offline, connect to the internet to sync")

// ErrSyncInProgress is returned when another sync run is already
// active. Overlapping triggers (startup refresh, online transition,
// post-sale, manual) collapse into the one active run.
var ErrSyncInProgress = errors.New("sync already in progress")

// Result summarizes one sync run. Per-sale failures live in Errors;
// they are aggregated, never raised.
type Result struct {
	Total  int      `json:"total"`
	Synced int      `json:"synced"`
	Errors []string `json:"errors"`
}

// Engine reconciles pending sales against the remote endpoint.
type Engine struct {
	store    *store.Store
	endpoint string
	probe    Probe
	client   *http.Client

	mu sync.Mutex // guards against concurrent sync runs
}

// NewEngine creates a sync engine pushing to endpoint. A nil client
// gets a default with a 30-second timeout; a nil probe dials the
// endpoint host.
func NewEngine(st *store.Store, endpoint string, probe Probe, client *http.Client) *Engine {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if probe == nil {
		probe = DialProbe{Endpoint: endpoint}
	}
	return &Engine{
		store:    st,
		endpoint: endpoint,
		probe:    probe,
		client:   client,
	}
}

// SyncPending pushes all currently pending sales, oldest first, one
// request at a time.
//
// Returns ErrSyncInProgress if another run is active and ErrOffline if
// the connectivity probe fails; both leave all state untouched. Every
// other failure is per-sale: recorded as "receipt N: message" in the
// result and the batch continues. Each success flips the sale's synced
// flag immediately, so re-running after a partial failure retries
// exactly the previously failed set.
func (e *Engine) SyncPending(ctx context.Context) (Result, error) {
	if !e.mu.TryLock() {
		return Result{}, ErrSyncInProgress
	}
	defer e.mu.Unlock()

	if !e.probe.Online(ctx) {
		return Result{}, ErrOffline
	}

	pending, err := e.store.PendingSales(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("sync: %w", err)
	}
	if len(pending) == 0 {
		return Result{Total: 0, Synced: 0, Errors: []string{}}, nil
	}

	result := Result{Total: len(pending), Errors: []string{}}

	for _, sale := range pending {
		if err := e.push(ctx, buildPayload(sale)); err != nil {
			slog.Warn("sale sync failed",
				"receipt", sale.ReceiptNumber, "sale_id", sale.ID, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("receipt %s: %v", sale.ReceiptNumber, err))
			continue
		}

		// Mark immediately, not batched at the end: a crash mid-batch
		// must leave already-accepted sales marked.
		if err := e.store.MarkSynced(ctx, sale.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("receipt %s: %v", sale.ReceiptNumber, err))
			continue
		}

		slog.Info("sale synced", "receipt", sale.ReceiptNumber, "sale_id", sale.ID)
		result.Synced++
	}

	return result, nil
}

// push POSTs one sale payload. Any non-2xx status is an error carrying
// the response body text when present, else a status-derived message.
func (e *Engine) push(ctx context.Context, payload SalePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		if msg := strings.TrimSpace(string(text)); msg != "" {
			return errors.New(msg)
		}
		return fmt.Errorf("sync failed with status %d", resp.StatusCode)
	}

	// Response body is not otherwise consumed.
	return nil
}
