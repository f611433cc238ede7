package mmu

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// EndOfChain terminates the page chain of an allocation.
const EndOfChain = -1

// free is the owner of an unused physical page.
const free = 0

// pageStat is the allocation record of one physical page.
type pageStat struct {
	proc  uint32 // owner pid, 0 if the page is free
	index int    // position of the page inside its allocation
	next  int    // next page of the allocation, EndOfChain for the last one
}

// FreePolicy selects what Free does to the page tables of the process.
type FreePolicy int

const (
	// FreeUnmap removes exactly the entries of the freed region. Free must
	// be given the first address of an allocation.
	FreeUnmap FreePolicy = iota

	// FreeShift decrements the virtual and physical index of every entry
	// the freed region walks over, leaving the entries in place. Frees from
	// the middle of an allocation release its tail.
	FreeShift
)

func (f FreePolicy) String() string {
	switch f {
	case FreeUnmap:
		return "unmap"
	case FreeShift:
		return "shift"
	}
	return fmt.Sprintf("FreePolicy(%d)", int(f))
}

// ParseFreePolicy maps "unmap" and "shift" to their policy.
// The empty string means FreeUnmap.
func ParseFreePolicy(s string) (FreePolicy, error) {
	switch strings.ToLower(s) {
	case "", "unmap":
		return FreeUnmap, nil
	case "shift":
		return FreeShift, nil
	}
	return 0, fmt.Errorf("unknown free policy %q", s)
}

// Options tune an MMU.
type Options struct {
	FreePolicy FreePolicy

	// SerializeAccess makes byte reads and writes hold the read side of the
	// MMU lock. Without it they may observe a mapping that a concurrent
	// Alloc or Free on the same process is changing.
	SerializeAccess bool

	// Logger receives debug records of every allocation and free. Nil
	// discards them.
	Logger *slog.Logger
}

// MMU owns the physical memory and the page allocation table.
// Alloc and Free are serialized by a single lock.
type MMU struct {
	geo       Geometry
	ram       []byte
	stat      []pageStat
	freePages int

	policy    FreePolicy
	serialize bool
	log       *slog.Logger

	// protects stat, freePages and the tables of the processes
	// while Alloc and Free run
	mu sync.RWMutex

	allocs, frees, failures atomic.Uint64
	reads, writes           atomic.Uint64
}

// New returns an MMU managing memory, which must be exactly g.RAMSize bytes
// long and zeroed.
func New(g Geometry, memory []byte, opts Options) (*MMU, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(memory) != g.RAMSize {
		return nil, fmt.Errorf("%w: memory is %d bytes, geometry wants %d",
			ErrInvalidGeometry, len(memory), g.RAMSize)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &MMU{
		geo:       g,
		ram:       memory,
		stat:      make([]pageStat, g.NumPages()),
		freePages: g.NumPages(),
		policy:    opts.FreePolicy,
		serialize: opts.SerializeAccess,
		log:       log,
	}
	for i := range m.stat {
		m.stat[i].next = EndOfChain
	}
	return m, nil
}

// Geometry returns the address layout of m.
func (m *MMU) Geometry() Geometry { return m.geo }

// Policy returns the free policy of m.
func (m *MMU) Policy() FreePolicy { return m.policy }

// Translate maps virtual address va of p to a physical address.
// It takes no lock; callers that race with Alloc or Free on the same
// process must serialize themselves.
func (m *MMU) Translate(va Addr, p Process) (Addr, error) {
	seg := m.geo.SegmentIndex(va)
	pages := p.SegTable().lookup(seg)
	if pages == nil {
		return 0, fmt.Errorf("%w: pid %d, address %05x, segment %d",
			ErrTranslationMiss, p.PID(), va, seg)
	}
	page := m.geo.PageIndex(va)
	i := pages.find(page)
	if i < 0 {
		return 0, fmt.Errorf("%w: pid %d, address %05x, segment %d, page %d",
			ErrTranslationMiss, p.PID(), va, seg, page)
	}
	return m.geo.PhysicalAddress(pages.Table[i].PIndex, m.geo.Offset(va)), nil
}

// physical translates va and checks the result lies inside RAM.
func (m *MMU) physical(va Addr, p Process) (Addr, error) {
	pa, err := m.Translate(va, p)
	if err != nil {
		return 0, err
	}
	if uint64(pa) >= uint64(len(m.ram)) {
		return 0, fmt.Errorf("%w: pid %d, address %05x maps to %05x",
			ErrOutOfRange, p.PID(), va, pa)
	}
	return pa, nil
}
