package mmu

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Cell is a non-zero byte of physical memory.
type Cell struct {
	Addr  Addr
	Value byte
}

// PageInfo describes an occupied physical page.
type PageInfo struct {
	Index    int
	Start    Addr // first physical address of the page
	End      Addr // last physical address of the page
	PID      uint32
	Position int
	Next     int
	NonZero  []Cell
}

// Stats is a point-in-time view of the MMU counters.
type Stats struct {
	TotalPages int
	FreePages  int
	UsedPages  int
	Allocs     uint64
	Frees      uint64
	Failures   uint64
	Reads      uint64
	Writes     uint64
}

// Snapshot returns every occupied page in index order. The allocation table
// is copied under the lock; the page bytes are read afterwards and are only
// consistent when no process is writing.
func (m *MMU) Snapshot() []PageInfo {
	m.mu.RLock()
	var pages []PageInfo
	for i, s := range m.stat {
		if s.proc == free {
			continue
		}
		start := m.geo.PhysicalAddress(Addr(i), 0)
		pages = append(pages, PageInfo{
			Index:    i,
			Start:    start,
			End:      start + Addr(m.geo.PageSize()) - 1,
			PID:      s.proc,
			Position: s.index,
			Next:     s.next,
		})
	}
	m.mu.RUnlock()

	for i := range pages {
		for a := pages[i].Start; a <= pages[i].End; a++ {
			if b := m.ram[a]; b != 0 {
				pages[i].NonZero = append(pages[i].NonZero, Cell{Addr: a, Value: b})
			}
		}
	}
	return pages
}

// Dump writes one line per occupied page (physical range, owner, position
// in its allocation, next page) followed by its non-zero bytes.
func (m *MMU) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range m.Snapshot() {
		fmt.Fprintf(bw, "%03d: %05x-%05x - PID: %02d (idx %03d, nxt: %03d)\n",
			p.Index, p.Start, p.End, p.PID, p.Position, p.Next)
		for _, c := range p.NonZero {
			fmt.Fprintf(bw, "\t%05x: %02x\n", c.Addr, c.Value)
		}
	}
	return bw.Flush()
}

// String returns the dump as a string.
func (m *MMU) String() string {
	var sb strings.Builder
	_ = m.Dump(&sb)
	return sb.String()
}

// Stats returns the page usage and operation counters.
func (m *MMU) Stats() Stats {
	m.mu.RLock()
	freePages := m.freePages
	m.mu.RUnlock()
	return Stats{
		TotalPages: len(m.stat),
		FreePages:  freePages,
		UsedPages:  len(m.stat) - freePages,
		Allocs:     m.allocs.Load(),
		Frees:      m.frees.Load(),
		Failures:   m.failures.Load(),
		Reads:      m.reads.Load(),
		Writes:     m.writes.Load(),
	}
}
