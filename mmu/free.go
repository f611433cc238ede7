package mmu

import "fmt"

// Free releases the allocation of p that va points into and updates the
// page tables of p according to the free policy of m. Virtual addresses
// are never handed out again; the break pointer of p does not move.
func (m *MMU) Free(va Addr, p Process) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.free(va, p)
	if err != nil {
		m.failures.Add(1)
		m.log.Warn("free failed", "pid", p.PID(), "vaddr", va, "err", err)
		return fmt.Errorf("free %05x for pid %d: %w", va, p.PID(), err)
	}
	m.frees.Add(1)
	m.log.Debug("free", "pid", p.PID(), "vaddr", va, "pages", n, "policy", m.policy)
	return nil
}

func (m *MMU) free(va Addr, p Process) (int, error) {
	pa, err := m.physical(va, p)
	if err != nil {
		return 0, err
	}
	page := int(pa >> m.geo.OffsetBits)
	if m.stat[page].proc != p.PID() {
		return 0, fmt.Errorf("%w: page %d belongs to pid %d", ErrNotOwner, page, m.stat[page].proc)
	}

	switch m.policy {
	case FreeShift:
		m.cut(page)
		n := m.release(page)
		m.shift(va, n, p.SegTable())
		return n, nil
	default:
		if m.geo.Offset(va) != 0 || m.stat[page].index != 0 {
			return 0, fmt.Errorf("%w: %05x is not the start of an allocation (page %d, position %d)",
				ErrInvalidRequest, va, page, m.stat[page].index)
		}
		n := m.release(page)
		m.unmap(va, n, p.SegTable())
		return n, nil
	}
}

// release marks every page of the chain starting at page as free and
// returns how many there were.
func (m *MMU) release(page int) int {
	n := 0
	for page != EndOfChain {
		next := m.stat[page].next
		m.stat[page] = pageStat{proc: free, next: EndOfChain}
		page = next
		n++
	}
	m.freePages += n
	return n
}

// cut ends the chain right before page, so a free from the middle of an
// allocation leaves its head as a shorter, well formed allocation.
func (m *MMU) cut(page int) {
	if m.stat[page].index == 0 {
		return
	}
	for i := range m.stat {
		if m.stat[i].proc != free && m.stat[i].next == page {
			m.stat[i].next = EndOfChain
			return
		}
	}
}

// unmap removes the entries of n consecutive virtual pages from va and
// drops segment entries left without pages.
func (m *MMU) unmap(va Addr, n int, st *SegTable) {
	for ; n > 0; n-- {
		seg := st.find(m.geo.SegmentIndex(va))
		if seg < 0 {
			return
		}
		pt := st.Table[seg].Pages
		if i := pt.find(m.geo.PageIndex(va)); i >= 0 {
			pt.remove(i)
		}
		if pt.Size == 0 {
			st.remove(seg)
		}
		va += Addr(m.geo.PageSize())
	}
}

// shift walks n pages from va and decrements the virtual and physical
// index of every entry it finds, stopping at the first miss. Indices wrap
// below zero.
func (m *MMU) shift(va Addr, n int, st *SegTable) {
	for ; n > 0; n-- {
		pt := st.lookup(m.geo.SegmentIndex(va))
		if pt == nil {
			return
		}
		i := pt.find(m.geo.PageIndex(va))
		if i < 0 {
			return
		}
		pt.Table[i].VIndex--
		pt.Table[i].PIndex--
		va += Addr(m.geo.PageSize())
	}
}
