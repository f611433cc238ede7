package process

import "errors"

// DefaultQueueSize is the capacity of a ready queue built with size 0.
const DefaultQueueSize = 10

// ErrQueueFull is returned by Enqueue on a full queue.
var ErrQueueFull = errors.New("process: queue full")

// Queue is a fixed-size ready queue that hands out the process with the
// highest priority first. It is not safe for concurrent use.
type Queue struct {
	procs []*PCB
	size  int
}

// NewQueue returns an empty queue holding up to size processes.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{procs: make([]*PCB, size)}
}

// Empty reports whether the queue holds no process.
func (q *Queue) Empty() bool { return q.size == 0 }

// Len returns the number of queued processes.
func (q *Queue) Len() int { return q.size }

// Enqueue appends p.
func (q *Queue) Enqueue(p *PCB) error {
	if q.size == len(q.procs) {
		return ErrQueueFull
	}
	q.procs[q.size] = p
	q.size++
	return nil
}

// Dequeue removes and returns the process with the highest priority; among
// equals the one nearest the front. The last process takes the freed slot,
// so order among the rest is not kept. Returns nil on an empty queue.
func (q *Queue) Dequeue() *PCB {
	if q.size == 0 {
		return nil
	}
	best := 0
	for i := 1; i < q.size; i++ {
		if q.procs[i].Priority > q.procs[best].Priority {
			best = i
		}
	}
	p := q.procs[best]
	q.procs[best] = q.procs[q.size-1]
	q.procs[q.size-1] = nil
	q.size--
	return p
}
