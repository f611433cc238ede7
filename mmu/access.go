package mmu

// ReadMemoryByte returns the byte at virtual address addr of p.
//
// Unless Options.SerializeAccess is set no lock is taken: a read racing
// with Alloc or Free on the same process can see a mapping that is being
// torn down, and may return a byte of a page that was just released.
func (m *MMU) ReadMemoryByte(addr Addr, p Process) (byte, error) {
	if m.serialize {
		m.mu.RLock()
		defer m.mu.RUnlock()
	}
	pa, err := m.physical(addr, p)
	if err != nil {
		return 0, err
	}
	m.reads.Add(1)
	return m.ram[pa], nil
}

// WriteMemoryByte stores data at virtual address addr of p. Locking is the
// same as for ReadMemoryByte.
func (m *MMU) WriteMemoryByte(addr Addr, p Process, data byte) error {
	if m.serialize {
		m.mu.RLock()
		defer m.mu.RUnlock()
	}
	pa, err := m.physical(addr, p)
	if err != nil {
		return err
	}
	m.writes.Add(1)
	m.ram[pa] = data
	return nil
}
