package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jroimartin/gocui"

	"mmusim/console"
	"mmusim/mmu"
	"mmusim/system"
)

// runGuiWorkload runs the workload behind the terminal interface. The
// interface stays up after the run until Ctrl-C.
func runGuiWorkload(ctx context.Context, mc *machine) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("couldn't create gui: %w", err)
	}
	defer g.Close()

	g.SetManagerFunc(layout)
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}

	sys, err := mc.system(console.NewGui(g, "console"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)

	g.Update(func(g *gocui.Gui) error {
		statusView, err := g.View("status")
		if err != nil {
			return err
		}
		fmt.Fprintf(statusView, "running %d processes on %d cpus..\n", len(mc.pcbs), mc.cfg.CPUs)
		return nil
	})
	go func() {
		err := sys.Run(ctx)
		done <- err
		g.Update(func(g *gocui.Gui) error {
			return showSummary(g, sys, err)
		})
	}()
	pagesDone := updatePages(ctx, sys.MMU, g)

	loopErr := g.MainLoop()
	// the CPUs and the refresher must stop before the store is unmapped
	cancel()
	runErr := <-done
	<-pagesDone
	if loopErr != nil && !errors.Is(loopErr, gocui.ErrQuit) {
		return loopErr
	}
	if errors.Is(runErr, context.Canceled) {
		// quit before every process exited
		return nil
	}
	return runErr
}

// updatePages redraws the page dump every second until ctx is done.
// gocui allows updating views only from its main loop, hence g.Update.
func updatePages(ctx context.Context, m *mmu.MMU, g *gocui.Gui) <-chan struct{} {
	return refreshPages(ctx, m, time.Second, func(dump []byte) {
		g.Update(func(g *gocui.Gui) error {
			v, err := g.View("pages")
			if err != nil {
				return err
			}
			v.Clear()
			_, err = v.Write(dump)
			return err
		})
	})
}

// refreshPages hands a fresh dump of m to draw on every tick. The returned
// channel is closed once the refresher stopped reading memory.
func refreshPages(ctx context.Context, m *mmu.MMU, every time.Duration, draw func([]byte)) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(every)

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			var buf bytes.Buffer
			if err := m.Dump(&buf); err != nil {
				continue
			}
			draw(buf.Bytes())
		}
	}()
	return done
}

func showSummary(g *gocui.Gui, sys *system.System, runErr error) error {
	v, err := g.View("status")
	if err != nil {
		return err
	}
	v.Clear()
	printSummary(v, sys)
	if runErr != nil {
		fmt.Fprintf(v, "stopped: %v\n", runErr)
	} else if err := sys.MMU.Check(); err != nil {
		fmt.Fprintf(v, "inconsistent: %v\n", err)
	}
	fmt.Fprintln(v, "Ctrl-C to quit")
	return nil
}

// gocui layout
func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// left -> process events
	if v, err := g.SetView("console", 0, 0, maxX/2-1, maxY-8); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Console"
		v.Autoscroll = true
		v.Wrap = true
	}

	// right -> page allocation table
	if v, err := g.SetView("pages", maxX/2, 0, maxX-1, maxY-8); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Pages"
	}
	// down -> status
	if v, err := g.SetView("status", 0, maxY-7, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
