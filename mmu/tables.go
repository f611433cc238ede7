package mmu

// PageEntry maps a virtual page index inside a segment to a physical page.
type PageEntry struct {
	VIndex Addr
	PIndex Addr
}

// PageTable is the second translation level. Capacity is fixed at creation
// to 1 << PageBits entries; Size entries are in use.
type PageTable struct {
	Table []PageEntry
	Size  int
}

// SegEntry maps a virtual segment index to its page table.
type SegEntry struct {
	VIndex Addr
	Pages  *PageTable
}

// SegTable is the first translation level, owned by a process. Capacity is
// 1 << SegmentBits entries.
type SegTable struct {
	Table []SegEntry
	Size  int

	pagesPerSegment int
}

// NewSegTable returns an empty segment table sized for g.
func NewSegTable(g Geometry) *SegTable {
	return &SegTable{
		Table:           make([]SegEntry, g.MaxSegments()),
		pagesPerSegment: g.PagesPerSegment(),
	}
}

// find returns the position of the entry for segment index, or -1.
func (s *SegTable) find(index Addr) int {
	for i := 0; i < s.Size; i++ {
		if s.Table[i].VIndex == index {
			return i
		}
	}
	return -1
}

// lookup returns the page table for segment index, or nil.
func (s *SegTable) lookup(index Addr) *PageTable {
	if i := s.find(index); i >= 0 {
		return s.Table[i].Pages
	}
	return nil
}

// open appends a new segment entry. The caller checks capacity first.
func (s *SegTable) open(index Addr) *PageTable {
	pt := &PageTable{Table: make([]PageEntry, s.pagesPerSegment)}
	s.Table[s.Size] = SegEntry{VIndex: index, Pages: pt}
	s.Size++
	return pt
}

// remove drops the segment entry at position i, keeping insertion order.
func (s *SegTable) remove(i int) {
	copy(s.Table[i:s.Size], s.Table[i+1:s.Size])
	s.Size--
	s.Table[s.Size] = SegEntry{}
}

// Pages returns the number of page entries across all segments.
func (s *SegTable) Pages() int {
	n := 0
	for i := 0; i < s.Size; i++ {
		n += s.Table[i].Pages.Size
	}
	return n
}

func (p *PageTable) find(index Addr) int {
	for i := 0; i < p.Size; i++ {
		if p.Table[i].VIndex == index {
			return i
		}
	}
	return -1
}

func (p *PageTable) add(e PageEntry) {
	p.Table[p.Size] = e
	p.Size++
}

func (p *PageTable) remove(i int) {
	copy(p.Table[i:p.Size], p.Table[i+1:p.Size])
	p.Size--
	p.Table[p.Size] = PageEntry{}
}
