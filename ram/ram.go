// Package ram provides the physical memory of the simulated machine.
package ram

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Close on an already released store.
var ErrClosed = errors.New("ram: store already closed")

// Store is a zeroed, fixed-size byte array addressed by physical address.
type Store struct {
	data    []byte
	release func([]byte) error
}

// New allocates size bytes of zeroed memory.
func New(size int) (*Store, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ram: invalid size %d", size)
	}
	data, release, err := allocate(size)
	if err != nil {
		return nil, fmt.Errorf("ram: allocate %d bytes: %w", size, err)
	}
	return &Store{data: data, release: release}, nil
}

// Bytes returns the backing memory. It stays valid until Close.
func (s *Store) Bytes() []byte { return s.data }

// Len returns the size of the store in bytes.
func (s *Store) Len() int { return len(s.data) }

// Close releases the memory.
func (s *Store) Close() error {
	if s.data == nil {
		return ErrClosed
	}
	data := s.data
	s.data = nil
	return s.release(data)
}
