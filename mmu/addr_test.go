package mmu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometry_decompose(t *testing.T) {
	g := DefaultGeometry // 5 segment bits, 5 page bits, 10 offset bits
	type want struct {
		seg, page, offset Addr
	}
	tests := []struct {
		name string
		addr Addr
		want want
	}{
		{"zero", 0, want{0, 0, 0}},
		{"last offset of first page", 0x3ff, want{0, 0, 0x3ff}},
		{"second page", 0x400, want{0, 1, 0}},
		{"last page of first segment", 0x7c00 | 0x12, want{0, 31, 0x12}},
		{"first page of second segment", 0x8000, want{1, 0, 0}},
		{"top of address space", 0xfffff, want{31, 31, 0x3ff}},
		{"mixed", 0x5a5a5, want{0x5a5a5 >> 15, (0x5a5a5 >> 10) & 0x1f, 0x5a5a5 & 0x3ff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := want{g.SegmentIndex(tt.addr), g.PageIndex(tt.addr), g.Offset(tt.addr)}
			if got != tt.want {
				t.Errorf("decompose(%05x) = %+v, want %+v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestGeometry_roundTrip(t *testing.T) {
	g := Geometry{AddressBits: 16, OffsetBits: 6, PageBits: 4, RAMSize: 1 << 12}
	for a := Addr(0); a < Addr(g.AddressSpace()); a++ {
		v := g.VirtualAddress(g.SegmentIndex(a), g.PageIndex(a), g.Offset(a))
		require.Equal(t, a, v, "virtual round trip of %04x", a)
	}
	for page := Addr(0); page < Addr(g.NumPages()); page++ {
		for off := Addr(0); off < Addr(g.PageSize()); off++ {
			pa := g.PhysicalAddress(page, off)
			require.Equal(t, page, pa>>g.OffsetBits)
			require.Equal(t, off, g.Offset(pa))
		}
	}
}

func TestGeometry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		g       Geometry
		wantErr bool
	}{
		{"default", DefaultGeometry, false},
		{"small", Geometry{AddressBits: 20, OffsetBits: 12, PageBits: 4, RAMSize: 1 << 16}, false},
		{"no address bits", Geometry{OffsetBits: 10, PageBits: 5, RAMSize: 1 << 20}, true},
		{"32 bit space", Geometry{AddressBits: 32, OffsetBits: 10, PageBits: 5, RAMSize: 1 << 20}, true},
		{"no segment bits", Geometry{AddressBits: 15, OffsetBits: 10, PageBits: 5, RAMSize: 1 << 20}, true},
		{"zero page bits", Geometry{AddressBits: 20, OffsetBits: 10, RAMSize: 1 << 20}, true},
		{"partial page", Geometry{AddressBits: 20, OffsetBits: 10, PageBits: 5, RAMSize: 1000}, true},
		{"no ram", Geometry{AddressBits: 20, OffsetBits: 10, PageBits: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Geometry.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.True(t, errors.Is(err, ErrInvalidGeometry))
			}
		})
	}
}

func TestGeometry_pagesFor(t *testing.T) {
	g := Geometry{AddressBits: 20, OffsetBits: 12, PageBits: 4, RAMSize: 1 << 16}
	tests := []struct {
		size uint32
		want uint32
	}{
		{1, 1},
		{4095, 1},
		{4096, 1},
		{4097, 2},
		{5000, 2},
		{8192, 2},
		{1 << 16, 16},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.pagesFor(tt.size), "pagesFor(%d)", tt.size)
	}
}
