package mmu

import "fmt"

// Alloc reserves ceil(size / PageSize) physical pages for p, maps them at
// the current break pointer of p and advances the break pointer past them.
// Either everything happens or nothing does: on failure NoAddress is
// returned and neither the page table nor p is changed.
func (m *MMU) Alloc(size uint32, p Process) (Addr, error) {
	if size == 0 {
		m.failures.Add(1)
		return NoAddress, fmt.Errorf("alloc for pid %d: %w: zero bytes", p.PID(), ErrInvalidRequest)
	}
	numPages := m.geo.pagesFor(size)

	m.mu.Lock()
	defer m.mu.Unlock()

	start := p.BreakPointer()
	if err := m.feasible(start, numPages, p.SegTable()); err != nil {
		m.failures.Add(1)
		m.log.Warn("alloc failed", "pid", p.PID(), "size", size, "pages", numPages, "err", err)
		return NoAddress, fmt.Errorf("alloc %d bytes for pid %d: %w", size, p.PID(), err)
	}

	first := m.reserve(numPages, p.PID())
	p.SetBreakPointer(start + Addr(numPages)<<m.geo.OffsetBits)
	m.mapPages(start, first, p.SegTable())

	m.allocs.Add(1)
	m.log.Debug("alloc", "pid", p.PID(), "size", size, "pages", numPages,
		"vaddr", start, "first_page", first, "bp", p.BreakPointer())
	return start, nil
}

// feasible checks physical pages, virtual space and table capacity for
// mapping n pages at start.
func (m *MMU) feasible(start Addr, n uint32, st *SegTable) error {
	if int(n) > m.freePages {
		return fmt.Errorf("%w: need %d pages, %d free", ErrInsufficientMemory, n, m.freePages)
	}
	end := uint64(start) + uint64(n)<<m.geo.OffsetBits
	if end > m.geo.AddressSpace() {
		return fmt.Errorf("%w: break pointer %05x + %d pages exceeds %d bytes",
			ErrVirtualSpaceExhausted, start, n, m.geo.AddressSpace())
	}

	// Pages are added segment by segment, so walk the new range one
	// segment at a time and count what every table has to take.
	newSegs := 0
	va := uint64(start)
	for va < end {
		seg := m.geo.SegmentIndex(Addr(va))
		segEnd := uint64(seg+1) << (m.geo.OffsetBits + m.geo.PageBits)
		if segEnd > end {
			segEnd = end
		}
		pages := int((segEnd - va) >> m.geo.OffsetBits)
		used := 0
		if pt := st.lookup(seg); pt != nil {
			used = pt.Size
		} else {
			newSegs++
		}
		if used+pages > st.pagesPerSegment {
			return fmt.Errorf("%w: page table of segment %d holds %d entries, %d more needed",
				ErrSegmentTableFull, seg, used, pages)
		}
		va = segEnd
	}
	if st.Size+newSegs > len(st.Table) {
		return fmt.Errorf("%w: %d of %d entries used, %d more needed",
			ErrSegmentTableFull, st.Size, len(st.Table), newSegs)
	}
	return nil
}

// reserve takes the n lowest free pages, chains them in ascending order and
// returns the first one.
func (m *MMU) reserve(n uint32, pid uint32) int {
	first, prev := EndOfChain, EndOfChain
	index := 0
	for i := range m.stat {
		if index == int(n) {
			break
		}
		if m.stat[i].proc != free {
			continue
		}
		m.stat[i] = pageStat{proc: pid, index: index, next: EndOfChain}
		if prev == EndOfChain {
			first = i
		} else {
			m.stat[prev].next = i
		}
		prev = i
		index++
	}
	m.freePages -= int(n)
	return first
}

// mapPages adds one page table entry per page of the chain starting at
// page, for consecutive virtual pages from start. A segment entry is
// opened the first time one of its pages is mapped.
func (m *MMU) mapPages(start Addr, page int, st *SegTable) {
	for va := start; page != EndOfChain; va += Addr(m.geo.PageSize()) {
		seg := m.geo.SegmentIndex(va)
		pt := st.lookup(seg)
		if pt == nil {
			pt = st.open(seg)
		}
		pt.add(PageEntry{VIndex: m.geo.PageIndex(va), PIndex: Addr(page)})
		page = m.stat[page].next
	}
}
