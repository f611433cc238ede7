package console

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "pid 1 started", []string{"pid 1 started"}},
		{"trailing newline", "pid 1 started\n", []string{"pid 1 started"}},
		{"blank lines", "\na\n\nb\n\n", []string{"a", "b"}},
		{"only newlines", "\n\n\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLines(tt.msg))
		})
	}
}

func TestHistory_evictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(fmt.Sprint(i))
	}
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"2", "3", "4"}, h.Lines())
}

func TestSimple_writeAndClose(t *testing.T) {
	var buf bytes.Buffer
	c := NewSimpleWriter(&buf)

	require.NoError(t, c.WriteConsole("first\n\nsecond"))
	require.NoError(t, c.WriteConsole("third\n"))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Equal(t, "first\nsecond\nthird\n", buf.String())
	assert.Equal(t, []string{"first", "second", "third"}, c.History().Lines())
	assert.ErrorIs(t, c.WriteConsole("late"), ErrClosed)
}

func TestSimple_concurrentWriters(t *testing.T) {
	var buf bytes.Buffer
	c := NewSimpleWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for k := 0; k < 20; k++ {
				_ = c.WriteConsole(fmt.Sprintf("cpu %d line %d", i, k))
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, c.Close())

	assert.Equal(t, 160, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Equal(t, 160, c.History().Len())
}

var (
	_ Console = (*Simple)(nil)
	_ Console = (*Gui)(nil)
)
