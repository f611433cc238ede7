package system

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"mmusim/config"
	"mmusim/console"
	"mmusim/interrupts"
	"mmusim/logger"
	"mmusim/mmu"
	"mmusim/process"
)

// System runs the processes of a workload on a set of simulated CPUs
// sharing one memory manager.
type System struct {
	MMU *mmu.MMU

	cpus     int
	timeSlot int

	// scheduler state, guarded by mu
	mu    sync.Mutex
	cond  *sync.Cond
	ready *process.Queue
	live  int
	procs []*process.PCB

	console console.Console
	log     *slog.Logger

	instructions atomic.Uint64
	traps        atomic.Uint64
	finished     atomic.Uint64
}

// Stats summarises a run.
type Stats struct {
	Processes    int
	Instructions uint64
	Traps        uint64
	Finished     uint64
}

// New returns a system scheduling on cfg.CPUs processors with a ready
// queue of cfg.QueueSize. A nil log discards records.
func New(cfg *config.Config, m *mmu.MMU, c console.Console, log *slog.Logger) *System {
	if log == nil {
		log = logger.Discard()
	}
	sys := &System{
		MMU:      m,
		cpus:     cfg.CPUs,
		timeSlot: cfg.TimeSlot,
		ready:    process.NewQueue(cfg.QueueSize),
		console:  c,
		log:      log,
	}
	sys.cond = sync.NewCond(&sys.mu)
	return sys
}

// Load puts pcbs on the ready queue.
func (sys *System) Load(pcbs ...*process.PCB) error {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	for _, p := range pcbs {
		if err := sys.ready.Enqueue(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		sys.procs = append(sys.procs, p)
		sys.live++
	}
	sys.cond.Broadcast()
	return nil
}

// Processes returns every loaded process.
func (sys *System) Processes() []*process.PCB {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	return append([]*process.PCB(nil), sys.procs...)
}

// Run starts the CPUs and blocks until every loaded process has exited
// or ctx is done.
func (sys *System) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		sys.mu.Lock()
		sys.cond.Broadcast()
		sys.mu.Unlock()
	})
	defer stop()

	var wg sync.WaitGroup
	for id := 0; id < sys.cpus; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sys.run(ctx, id)
		}(id)
	}
	wg.Wait()

	sys.mu.Lock()
	defer sys.mu.Unlock()
	if sys.live == 0 {
		return nil
	}
	return ctx.Err()
}

// Stats returns the counters of the run so far.
func (sys *System) Stats() Stats {
	sys.mu.Lock()
	n := len(sys.procs)
	sys.mu.Unlock()
	return Stats{
		Processes:    n,
		Instructions: sys.instructions.Load(),
		Traps:        sys.traps.Load(),
		Finished:     sys.finished.Load(),
	}
}

// run is the scheduling loop of one CPU.
func (sys *System) run(ctx context.Context, cpu int) {
	for {
		p := sys.next(ctx)
		if p == nil {
			return
		}
		if p.PC == 0 {
			sys.write("cpu %d: %s started", cpu, p.Name)
		}
		switch sys.slice(cpu, p) {
		case stateRunning:
			sys.requeue(p)
		case stateFinished:
			sys.finished.Add(1)
			sys.write("cpu %d: %s exited", cpu, p)
			sys.exit()
		case stateKilled:
			sys.exit()
		}
	}
}

// next blocks until a process is ready. It returns nil once no process is
// left or ctx is done.
func (sys *System) next(ctx context.Context) *process.PCB {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	for sys.ready.Empty() {
		if sys.live == 0 || ctx.Err() != nil {
			return nil
		}
		sys.cond.Wait()
	}
	if ctx.Err() != nil {
		return nil
	}
	return sys.ready.Dequeue()
}

// requeue puts p back on the ready queue. A process that does not fit
// is dropped so Run can still return.
func (sys *System) requeue(p *process.PCB) {
	sys.mu.Lock()
	err := sys.ready.Enqueue(p)
	if err == nil {
		sys.cond.Signal()
	}
	sys.mu.Unlock()

	if err != nil {
		sys.log.Error("requeue failed, process dropped", "pid", p.PID(), "err", err)
		sys.write("%s dropped: %v", p.Name, err)
		sys.exit()
	}
}

func (sys *System) exit() {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	sys.live--
	if sys.live == 0 {
		sys.cond.Broadcast()
	}
}

// process state after a time slice
const (
	stateRunning = iota
	stateFinished
	stateKilled
)

// slice executes up to timeSlot instructions of p.
func (sys *System) slice(cpu int, p *process.PCB) (state int) {
	defer func() {
		t := recover()
		switch t := t.(type) {
		case interrupts.Trap:
			sys.trap(cpu, p, t)
			state = stateKilled
		case nil:
			// ignore
		default:
			panic(t)
		}
	}()

	for i := 0; i < sys.timeSlot; i++ {
		ins, ok := p.Next()
		if !ok {
			break
		}
		sys.execute(p, ins)
		sys.instructions.Add(1)
	}
	if p.Done() {
		return stateFinished
	}
	return stateRunning
}

// trap terminates p.
func (sys *System) trap(cpu int, p *process.PCB, t interrupts.Trap) {
	sys.traps.Add(1)
	sys.log.Warn("trap", "cpu", cpu, "pid", p.PID(), "vector", fmt.Sprintf("%03o", t.Vector), "err", t.Err)
	sys.write("cpu %d: %s killed: %v", cpu, p.Name, t)
}

func (sys *System) write(format string, args ...any) {
	if sys.console == nil {
		return
	}
	_ = sys.console.WriteConsole(fmt.Sprintf(format, args...))
}
