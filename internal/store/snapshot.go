package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/mattn/go-sqlite3"
)

// persist serializes the full database content, encodes it as base64
// text, and overwrites the slot. Called after every mutation; there is
// no incremental log, so durability is at the granularity of the last
// completed mutation.
func (s *Store) persist(ctx context.Context) error {
	var image []byte
	err := s.rawConn(ctx, func(sc *sqlite3.SQLiteConn) error {
		data, err := sc.Serialize("")
		if err != nil {
			return fmt.Errorf("serialize database: %w", err)
		}
		image = data
		return nil
	})
	if err != nil {
		return err
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(image)))
	base64.StdEncoding.Encode(encoded, image)

	if err := s.slot.Store(encoded); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	slog.Debug("snapshot persisted", "bytes", len(image))
	return nil
}

// restore decodes a base64 snapshot from the slot into the live
// database, replacing its current (empty) content.
func (s *Store) restore(ctx context.Context, encoded []byte) error {
	image := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(image, encoded)
	if err != nil {
		return fmt.Errorf("%w: decode base64: %v", ErrCorruptSnapshot, err)
	}

	err = s.rawConn(ctx, func(sc *sqlite3.SQLiteConn) error {
		return sc.Deserialize(image[:n], "")
	})
	if err != nil {
		return fmt.Errorf("%w: deserialize: %v", ErrCorruptSnapshot, err)
	}

	// Deserialize accepts arbitrary bytes; corruption only surfaces on
	// the first read. Probe now so a bad snapshot fails the load.
	var tables int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master`).Scan(&tables); err != nil {
		return fmt.Errorf("%w: verify: %v", ErrCorruptSnapshot, err)
	}

	slog.Debug("snapshot restored", "bytes", n, "tables", tables)
	return nil
}
