package mmu

import "errors"

var (
	// ErrTranslationMiss indicates a virtual address with no mapping for the process.
	ErrTranslationMiss = errors.New("mmu: translation miss")

	// ErrInsufficientMemory indicates there are not enough free physical pages.
	ErrInsufficientMemory = errors.New("mmu: insufficient physical memory")

	// ErrVirtualSpaceExhausted indicates the break pointer would leave the address space.
	ErrVirtualSpaceExhausted = errors.New("mmu: virtual address space exhausted")

	// ErrInvalidRequest indicates a zero-byte allocation or a free that does not
	// start an allocation.
	ErrInvalidRequest = errors.New("mmu: invalid request")

	// ErrSegmentTableFull indicates no room for another segment entry.
	ErrSegmentTableFull = errors.New("mmu: segment table full")

	// ErrNotOwner indicates a mapping to a physical page owned by someone else.
	ErrNotOwner = errors.New("mmu: page not owned by process")

	// ErrOutOfRange indicates a translated physical address outside RAM.
	ErrOutOfRange = errors.New("mmu: physical address out of range")

	// ErrInvalidGeometry indicates an unusable address layout.
	ErrInvalidGeometry = errors.New("mmu: invalid geometry")
)
