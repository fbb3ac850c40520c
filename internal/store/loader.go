package store

import "sync"

// Loader memoizes store initialization process-wide. The first caller
// of Get triggers the open (restore snapshot, apply schema); concurrent
// callers block on the same in-flight initialization and receive the
// same store instance and error. A failed open is not retried.
type Loader struct {
	slot BlobSlot

	once  sync.Once
	store *Store
	err   error
}

// NewLoader creates a Loader over the given slot. Open does not happen
// until the first Get.
func NewLoader(slot BlobSlot) *Loader {
	return &Loader{slot: slot}
}

// Get returns the shared store, opening it on first use.
func (l *Loader) Get() (*Store, error) {
	l.once.Do(func() {
		l.store, l.err = Open(l.slot)
	})
	return l.store, l.err
}
