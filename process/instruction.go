package process

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NumRegisters is the number of general purpose registers of a process.
const NumRegisters = 10

// ErrBadInstruction is returned for unparsable program lines.
var ErrBadInstruction = errors.New("process: bad instruction")

// Opcode of a process instruction.
type Opcode int

const (
	// Calc burns a CPU slot without touching memory.
	Calc Opcode = iota
	// Alloc: alloc <size> <reg>, reg receives the first address.
	Alloc
	// Free: free <reg>
	Free
	// Read: read <src_reg> <offset> <dst_reg>
	Read
	// Write: write <data> <dst_reg> <offset>
	Write
)

var opcodeNames = map[Opcode]string{
	Calc:  "calc",
	Alloc: "alloc",
	Free:  "free",
	Read:  "read",
	Write: "write",
}

var opcodeArgs = map[Opcode]int{
	Calc:  0,
	Alloc: 2,
	Free:  1,
	Read:  3,
	Write: 3,
}

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(%d)", int(o))
}

// Instruction is one line of a process program. The meaning of the
// arguments depends on Op, see the opcode constants.
type Instruction struct {
	Op   Opcode
	Args [3]uint32
}

func (i Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.Op.String())
	for k := 0; k < opcodeArgs[i.Op]; k++ {
		fmt.Fprintf(&sb, " %d", i.Args[k])
	}
	return sb.String()
}

// ParseInstruction reads a single program line such as "alloc 300 0".
func ParseInstruction(line string) (Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Instruction{}, fmt.Errorf("%w: empty line", ErrBadInstruction)
	}
	var ins Instruction
	found := false
	for op, name := range opcodeNames {
		if strings.EqualFold(fields[0], name) {
			ins.Op, found = op, true
			break
		}
	}
	if !found {
		return Instruction{}, fmt.Errorf("%w: unknown opcode %q", ErrBadInstruction, fields[0])
	}
	if want := opcodeArgs[ins.Op]; len(fields)-1 != want {
		return Instruction{}, fmt.Errorf("%w: %s takes %d arguments, got %d",
			ErrBadInstruction, ins.Op, want, len(fields)-1)
	}
	for k, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 0, 32)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: %q: %v", ErrBadInstruction, line, err)
		}
		ins.Args[k] = uint32(v)
	}
	if err := ins.checkRegisters(); err != nil {
		return Instruction{}, fmt.Errorf("%w: %q: %v", ErrBadInstruction, line, err)
	}
	return ins, nil
}

// checkRegisters validates the register operands of i.
func (i Instruction) checkRegisters() error {
	var regs []uint32
	switch i.Op {
	case Alloc:
		regs = []uint32{i.Args[1]}
	case Free:
		regs = []uint32{i.Args[0]}
	case Read:
		regs = []uint32{i.Args[0], i.Args[2]}
	case Write:
		if i.Args[0] > 0xff {
			return fmt.Errorf("data %d does not fit in a byte", i.Args[0])
		}
		regs = []uint32{i.Args[1]}
	}
	for _, r := range regs {
		if r >= NumRegisters {
			return fmt.Errorf("register %d out of range", r)
		}
	}
	return nil
}

// ParseProgram parses one instruction per line, skipping blank lines and
// lines starting with '#'.
func ParseProgram(lines []string) ([]Instruction, error) {
	code := make([]Instruction, 0, len(lines))
	for n, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ins, err := ParseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		code = append(code, ins)
	}
	return code, nil
}
