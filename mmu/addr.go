package mmu

import "fmt"

// Addr is a virtual or physical address. Only the low Geometry.AddressBits
// bits are meaningful.
type Addr uint32

// NoAddress is returned together with an error when an allocation fails.
const NoAddress = ^Addr(0)

// Geometry describes how a virtual address is split:
//
//	| segment index | page index | offset |
//	  SegmentBits     PageBits     OffsetBits
//
// Physical addresses use the same offset width:
//
//	| physical page index | offset |
type Geometry struct {
	AddressBits uint `yaml:"address_bits"`
	OffsetBits  uint `yaml:"offset_bits"`
	PageBits    uint `yaml:"page_bits"`
	RAMSize     int  `yaml:"ram_size"`
}

// DefaultGeometry: 20 bit address space, 1KB pages, 32 pages per segment,
// 1MB of RAM.
var DefaultGeometry = Geometry{
	AddressBits: 20,
	OffsetBits:  10,
	PageBits:    5,
	RAMSize:     1 << 20,
}

// Validate checks that the fields describe a usable address layout.
func (g Geometry) Validate() error {
	if g.AddressBits == 0 || g.AddressBits > 31 {
		return fmt.Errorf("%w: address bits must be in 1..31, got %d", ErrInvalidGeometry, g.AddressBits)
	}
	if g.OffsetBits == 0 || g.PageBits == 0 {
		return fmt.Errorf("%w: offset and page bits must be positive", ErrInvalidGeometry)
	}
	if g.OffsetBits+g.PageBits >= g.AddressBits {
		return fmt.Errorf("%w: offset (%d) + page (%d) bits leave no segment bits in %d",
			ErrInvalidGeometry, g.OffsetBits, g.PageBits, g.AddressBits)
	}
	if g.RAMSize <= 0 || g.RAMSize%int(g.PageSize()) != 0 {
		return fmt.Errorf("%w: RAM size %d is not a positive multiple of page size %d",
			ErrInvalidGeometry, g.RAMSize, g.PageSize())
	}
	if uint64(g.NumPages()) > uint64(1)<<(32-g.OffsetBits) {
		return fmt.Errorf("%w: %d physical pages are not addressable with %d offset bits",
			ErrInvalidGeometry, g.NumPages(), g.OffsetBits)
	}
	return nil
}

// PageSize in bytes.
func (g Geometry) PageSize() uint32 { return 1 << g.OffsetBits }

// NumPages is the number of physical pages.
func (g Geometry) NumPages() int { return g.RAMSize >> g.OffsetBits }

// SegmentBits is the width of the segment index field.
func (g Geometry) SegmentBits() uint { return g.AddressBits - g.OffsetBits - g.PageBits }

// MaxSegments is the segment table capacity.
func (g Geometry) MaxSegments() int { return 1 << g.SegmentBits() }

// PagesPerSegment is the page table capacity.
func (g Geometry) PagesPerSegment() int { return 1 << g.PageBits }

// AddressSpace is the size of a process' virtual address space in bytes.
func (g Geometry) AddressSpace() uint64 { return uint64(1) << g.AddressBits }

// Offset returns the low OffsetBits of addr.
func (g Geometry) Offset(addr Addr) Addr {
	return addr & ^(^Addr(0) << g.OffsetBits)
}

// SegmentIndex returns the bits above the page index field.
func (g Geometry) SegmentIndex(addr Addr) Addr {
	return addr >> (g.OffsetBits + g.PageBits)
}

// PageIndex returns the middle bits, the page index inside a segment.
func (g Geometry) PageIndex(addr Addr) Addr {
	return (addr >> g.OffsetBits) - (g.SegmentIndex(addr) << g.PageBits)
}

// PhysicalAddress concatenates a physical page index and an offset.
func (g Geometry) PhysicalAddress(page, offset Addr) Addr {
	return page<<g.OffsetBits | offset
}

// VirtualAddress concatenates the three virtual address fields.
func (g Geometry) VirtualAddress(segment, page, offset Addr) Addr {
	return segment<<(g.OffsetBits+g.PageBits) | page<<g.OffsetBits | offset
}

// pagesFor rounds size up to whole pages.
func (g Geometry) pagesFor(size uint32) uint32 {
	n := size >> g.OffsetBits
	if size&(g.PageSize()-1) != 0 {
		n++
	}
	return n
}
