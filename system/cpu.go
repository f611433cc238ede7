package system

import (
	"fmt"

	"mmusim/interrupts"
	"mmusim/mmu"
	"mmusim/process"
)

// execute runs a single instruction of p. Failures panic with an
// interrupts.Trap, recovered by slice.
func (sys *System) execute(p *process.PCB, ins process.Instruction) {
	a := ins.Args
	sys.log.Debug("execute", "pid", p.PID(), "pc", p.PC-1, "ins", ins.String())

	switch ins.Op {
	case process.Calc:
		// no memory access

	case process.Alloc:
		va, err := sys.MMU.Alloc(a[0], p)
		if err != nil {
			panic(sys.fault(p, ins, err))
		}
		p.Registers[a[1]] = uint32(va)

	case process.Free:
		if err := sys.MMU.Free(mmu.Addr(p.Registers[a[0]]), p); err != nil {
			panic(sys.fault(p, ins, err))
		}

	case process.Read:
		b, err := sys.MMU.ReadMemoryByte(mmu.Addr(p.Registers[a[0]]+a[1]), p)
		if err != nil {
			panic(sys.fault(p, ins, err))
		}
		p.Registers[a[2]] = uint32(b)

	case process.Write:
		if err := sys.MMU.WriteMemoryByte(mmu.Addr(p.Registers[a[1]]+a[2]), p, byte(a[0])); err != nil {
			panic(sys.fault(p, ins, err))
		}

	default:
		panic(interrupts.Trap{
			Vector: interrupts.IntIllegal,
			Msg:    fmt.Sprintf("pid %d pc %d: unknown opcode %d", p.PID(), p.PC-1, ins.Op),
		})
	}
}

func (sys *System) fault(p *process.PCB, ins process.Instruction, err error) interrupts.Trap {
	return interrupts.FromError(fmt.Sprintf("pid %d pc %d %q", p.PID(), p.PC-1, ins.String()), err)
}
