package mmu

import "fmt"

// Check verifies the page allocation table: every owned page belongs to
// exactly one chain, chains start at position 0, have ascending positions
// and a single owner, and the free page count matches. It is meant for
// quiescent points, with no Alloc or Free in flight.
func (m *MMU) Check() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make([]bool, len(m.stat))
	owned := 0
	for head, s := range m.stat {
		if s.proc == free {
			continue
		}
		owned++
		if s.index != 0 {
			continue
		}
		pos := 0
		for page := head; page != EndOfChain; page = m.stat[page].next {
			if page < 0 || page >= len(m.stat) {
				return fmt.Errorf("chain from page %d: link %d out of range", head, page)
			}
			if seen[page] {
				return fmt.Errorf("chain from page %d: page %d reached twice", head, page)
			}
			seen[page] = true
			ps := m.stat[page]
			if ps.proc != s.proc {
				return fmt.Errorf("chain from page %d (pid %d): page %d owned by pid %d",
					head, s.proc, page, ps.proc)
			}
			if ps.index != pos {
				return fmt.Errorf("chain from page %d: page %d has position %d, want %d",
					head, page, ps.index, pos)
			}
			pos++
		}
	}
	for i, s := range m.stat {
		if s.proc != free && !seen[i] {
			return fmt.Errorf("page %d (pid %d, position %d) is on no chain", i, s.proc, s.index)
		}
	}
	if len(m.stat)-owned != m.freePages {
		return fmt.Errorf("free page count %d, table has %d free pages", m.freePages, len(m.stat)-owned)
	}
	return nil
}
