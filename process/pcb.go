// Package process holds the process control block of the simulated OS and
// its priority ready queue.
package process

import (
	"errors"
	"fmt"

	"mmusim/mmu"
)

// ErrInvalidPID is returned for the reserved pid 0.
var ErrInvalidPID = errors.New("process: pid 0 is reserved")

// PCB is the process control block. It implements mmu.Process.
type PCB struct {
	pid      uint32
	Name     string
	Priority int

	// Registers hold addresses returned by alloc and bytes loaded by read.
	Registers [NumRegisters]uint32

	Code []Instruction
	PC   int

	bp       mmu.Addr
	segTable *mmu.SegTable
}

// New returns a PCB with an empty segment table laid out for g and a break
// pointer of 0.
func New(pid uint32, name string, priority int, code []Instruction, g mmu.Geometry) (*PCB, error) {
	if pid == 0 {
		return nil, ErrInvalidPID
	}
	return &PCB{
		pid:      pid,
		Name:     name,
		Priority: priority,
		Code:     code,
		segTable: mmu.NewSegTable(g),
	}, nil
}

var _ mmu.Process = (*PCB)(nil)

func (p *PCB) PID() uint32 { return p.pid }

func (p *PCB) BreakPointer() mmu.Addr { return p.bp }

func (p *PCB) SetBreakPointer(bp mmu.Addr) { p.bp = bp }

func (p *PCB) SegTable() *mmu.SegTable { return p.segTable }

// Done reports whether every instruction has been executed.
func (p *PCB) Done() bool { return p.PC >= len(p.Code) }

// Next returns the instruction at PC and advances PC.
func (p *PCB) Next() (Instruction, bool) {
	if p.Done() {
		return Instruction{}, false
	}
	ins := p.Code[p.PC]
	p.PC++
	return ins, true
}

func (p *PCB) String() string {
	return fmt.Sprintf("%s (pid %d, prio %d, pc %d/%d, bp %05x)",
		p.Name, p.pid, p.Priority, p.PC, len(p.Code), p.bp)
}
