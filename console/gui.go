package console

import (
	"fmt"

	"github.com/jroimartin/gocui"
)

// Gui console appends lines to a gocui view. gocui only allows touching
// views from its main loop, so every write goes through Gui.Update.
type Gui struct {
	g       *gocui.Gui
	view    string
	history *History
}

// NewGui returns a console writing into the named view of g.
func NewGui(g *gocui.Gui, view string) *Gui {
	return &Gui{g: g, view: view, history: NewHistory(DefaultHistory)}
}

// WriteConsole appends the non-empty lines of msg to the view.
func (c *Gui) WriteConsole(msg string) error {
	lines := splitLines(msg)
	if len(lines) == 0 {
		return nil
	}
	for _, line := range lines {
		c.history.Add(line)
	}
	c.g.Update(func(g *gocui.Gui) error {
		v, err := g.View(c.view)
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Fprintln(v, line)
		}
		return nil
	})
	return nil
}

// History returns the lines written so far.
func (c *Gui) History() *History { return c.history }
