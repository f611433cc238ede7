// Package mmu implements the memory manager of the simulated machine: a
// fixed-size physical RAM split into pages, a page allocation table, and a
// two level (segment -> page) translation from each process' virtual address
// space to physical addresses.
package mmu

import "io"

// MemoryManager is what the simulated CPUs see of the memory subsystem.
type MemoryManager interface {

	// Alloc reserves size bytes for p and returns the first virtual address
	// of the new region.
	Alloc(size uint32, p Process) (Addr, error)

	// Free releases the region of p starting at addr.
	Free(addr Addr, p Process) error

	// ReadMemoryByte returns the byte at virtual address addr of p.
	ReadMemoryByte(addr Addr, p Process) (byte, error)

	// WriteMemoryByte writes data to virtual address addr of p.
	WriteMemoryByte(addr Addr, p Process, data byte) error

	// Dump writes the occupied pages and their non-zero bytes to w.
	Dump(w io.Writer) error
}

// Process is the part of a process control block the memory manager
// works with. PID must never be zero, zero marks a free page.
type Process interface {
	PID() uint32
	BreakPointer() Addr
	SetBreakPointer(bp Addr)
	SegTable() *SegTable
}

var _ MemoryManager = (*MMU)(nil)
