// Package store provides the embedded relational store for offline sales.
//
// The store runs SQLite fully in memory and owns two tables:
//   - sales: one row per completed sale, with totals snapshotted at
//     completion time and a synced flag
//   - sale_items: line items keyed by saleId plus positional index,
//     deleted in cascade with their sale
//
// Durability is full-snapshot: after every mutation the whole database
// image is serialized, base64-encoded, and written to a single named
// blob slot (see BlobSlot). There is no write-ahead log; durability is
// at the granularity of the last completed mutation.
//
// # Ordering
//
//   - AllSales: ORDER BY datetime(createdAt) DESC (newest first, history view)
//   - PendingSales: ORDER BY datetime(createdAt) ASC (FIFO for the sync engine)
//
// # Database Configuration
//
//   - single connection (SQLite single-writer discipline)
//   - foreign_keys=ON: enforce the sale_items cascade
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Process-wide initialization is memoized by Loader: concurrent first
// callers all await the same open and receive the same instance.
package store
