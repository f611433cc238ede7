package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmusim/mmu"
)

const sample = `
geometry:
  address_bits: 20
  offset_bits: 12
  page_bits: 4
  ram_size: 65536
cpus: 3
time_slot: 4
free_policy: shift
serialize_access: true
processes:
  - name: writer
    priority: 2
    code:
      - alloc 5000 0
      - write 171 0 0
      - read 0 0 1
      - free 0
  - code: ["calc", "calc"]
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, mmu.Geometry{AddressBits: 20, OffsetBits: 12, PageBits: 4, RAMSize: 65536}, cfg.Geometry)
	assert.Equal(t, 3, cfg.CPUs)
	assert.Equal(t, 4, cfg.TimeSlot)
	assert.Equal(t, 10, cfg.QueueSize, "default kept")
	assert.Equal(t, mmu.Options{FreePolicy: mmu.FreeShift, SerializeAccess: true}, cfg.MMUOptions())

	pcbs, err := cfg.PCBs()
	require.NoError(t, err)
	require.Len(t, pcbs, 2)
	assert.Equal(t, uint32(1), pcbs[0].PID())
	assert.Equal(t, "writer", pcbs[0].Name)
	assert.Equal(t, 2, pcbs[0].Priority)
	assert.Len(t, pcbs[0].Code, 4)
	assert.Equal(t, "p2", pcbs[1].Name)
	assert.Len(t, pcbs[1].SegTable().Table, 16)
}

func TestParse_defaults(t *testing.T) {
	cfg, err := Parse([]byte("cpus: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "cpus: [1"},
		{"no cpus", "cpus: 0"},
		{"no time slot", "time_slot: -1"},
		{"bad policy", "free_policy: compact"},
		{"bad geometry", "geometry: {address_bits: 12, offset_bits: 10, page_bits: 5, ram_size: 1024}"},
		{"bad program", "processes: [{code: [\"alloc\"]}]"},
		{"queue too small", "queue_size: 1\nprocesses: [{code: []}, {code: []}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Processes, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
