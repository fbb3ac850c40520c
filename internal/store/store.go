package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrCorruptSnapshot is returned by Open when a stored snapshot exists
// but cannot be decoded. There is no automatic fallback to an empty
// store: recovering from corruption is an operator decision.
var ErrCorruptSnapshot = errors.New("corrupt database snapshot")

// ErrNotFound is returned when a sale with the given ID does not exist.
var ErrNotFound = errors.New("sale not found")

// Store is the embedded relational store for sales and their line
// items. The database lives entirely in memory; every mutation is
// followed by a full-snapshot flush to the backing BlobSlot.
type Store struct {
	db   *sql.DB
	slot BlobSlot
	now  func() time.Time
}

// Open creates the in-memory database, restores a previously persisted
// snapshot from the slot if one exists, and applies the idempotent
// schema. When the slot is empty an initial snapshot is persisted
// immediately so the slot always holds a decodable image.
//
// Returns an error wrapping ErrCorruptSnapshot if the slot holds bytes
// that cannot be decoded into a database.
func Open(slot BlobSlot) (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// An in-memory SQLite database is owned by its connection. Pin the
	// pool to a single long-lived connection so every statement and
	// every snapshot sees the same database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db, slot: slot, now: time.Now}

	data, ok, err := slot.Load()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if ok {
		if err := s.restore(context.Background(), data); err != nil {
			db.Close()
			return nil, err
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if !ok {
		if err := s.persist(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

// Close closes the database connection. The in-memory database is
// discarded; the last persisted snapshot in the slot survives.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// rawConn runs fn with the driver-level SQLite connection, which is the
// only place the serialize/deserialize API is exposed.
func (s *Store) rawConn(ctx context.Context, fn func(*sqlite3.SQLiteConn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}
		return fn(sc)
	})
}
