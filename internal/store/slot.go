package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SlotName is the name of the persistent slot holding the serialized
// database, shared with the previous generations of the app.
const SlotName = "sika_offline_sales_db"

// BlobSlot is a single named blob in host key-value storage. The
// serialized database is readable and writable only as a whole; there
// is no partial or range access.
type BlobSlot interface {
	// Load returns the stored blob. ok is false when nothing has been
	// stored yet, which is not an error.
	Load() (data []byte, ok bool, err error)
	// Store overwrites the blob with data.
	Store(data []byte) error
}

// FileSlot stores the blob as a file named SlotName inside a directory.
type FileSlot struct {
	dir string
}

// NewFileSlot creates a FileSlot rooted at dir, creating the directory
// if needed.
func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &FileSlot{dir: dir}, nil
}

func (s *FileSlot) path() string {
	return filepath.Join(s.dir, SlotName)
}

func (s *FileSlot) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot: %w", err)
	}
	return data, true, nil
}

func (s *FileSlot) Store(data []byte) error {
	// Write-then-rename so a crash mid-write never truncates the
	// previous snapshot.
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return fmt.Errorf("replace slot: %w", err)
	}
	return nil
}

// MemorySlot is an in-process BlobSlot for tests.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
	ok   bool
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Load() ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ok {
		return nil, false, nil
	}
	return append([]byte(nil), s.data...), true, nil
}

func (s *MemorySlot) Store(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.ok = true
	return nil
}
