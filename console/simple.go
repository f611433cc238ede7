package console

import (
	"errors"
	"io"
	"os"
	"sync"
)

// ErrClosed is returned when writing to a closed console.
var ErrClosed = errors.New("console: closed")

// Simple console prints every line to a writer from its own goroutine.
type Simple struct {
	consoleOut chan string // lines waiting to be printed
	done       chan struct{}
	w          io.Writer
	history    *History

	mu     sync.RWMutex
	closed bool
}

// NewSimple returns a console printing to stdout.
func NewSimple() *Simple {
	return NewSimpleWriter(os.Stdout)
}

// NewSimpleWriter returns a console printing to w.
func NewSimpleWriter(w io.Writer) *Simple {
	c := &Simple{
		consoleOut: make(chan string, 64),
		done:       make(chan struct{}),
		w:          w,
		history:    NewHistory(DefaultHistory),
	}
	c.initSimple()
	return c
}

func (c *Simple) initSimple() {
	go func() {
		defer close(c.done)
		for s := range c.consoleOut {
			_, _ = io.WriteString(c.w, s)
		}
	}()
}

// WriteConsole queues the non-empty lines of msg.
func (c *Simple) WriteConsole(msg string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	for _, line := range splitLines(msg) {
		c.history.Add(line)
		c.consoleOut <- line + "\n"
	}
	return nil
}

// History returns the lines written so far.
func (c *Simple) History() *History { return c.history }

// Close flushes the queued lines and stops the printer. Further writes
// fail with ErrClosed.
func (c *Simple) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.consoleOut)
	c.mu.Unlock()
	<-c.done
	return nil
}
