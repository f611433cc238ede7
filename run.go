package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mmusim/config"
	"mmusim/console"
	"mmusim/logger"
	"mmusim/mmu"
	"mmusim/process"
	"mmusim/ram"
	"mmusim/system"
)

var (
	runGui    bool
	runDump   bool
	runPolicy string
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runGui, "gui", false, "Show the terminal interface")
	cmd.Flags().BoolVar(&runDump, "dump", false, "Dump the page allocation table when done")
	cmd.Flags().StringVar(&runPolicy, "policy", "", "Override the free policy: unmap or shift")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <workload.yaml>",
		Short: "Run a workload",
		Long: `The run command loads a workload file, starts its processes on the
configured number of CPUs and prints a summary once every process has
exited.

Example:
  mmusim run testdata/two-procs.yaml
  mmusim run testdata/two-procs.yaml --dump --policy shift
  mmusim run testdata/two-procs.yaml --gui --log mmusim.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWorkload(ctx, args[0])
		},
	}
}

// machine is everything a run needs besides the console.
type machine struct {
	cfg   *config.Config
	store *ram.Store
	mmu   *mmu.MMU
	pcbs  []*process.PCB
	log   *slog.Logger
}

func newMachine(path string) (*machine, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if runPolicy != "" {
		cfg.FreePolicy = runPolicy
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	log, err := logger.New(logPath, logLevel)
	if err != nil {
		return nil, err
	}
	if runGui && logPath == "" {
		// stdout belongs to the terminal interface
		log = logger.Discard()
	}
	pcbs, err := cfg.PCBs()
	if err != nil {
		return nil, err
	}

	store, err := ram.New(cfg.Geometry.RAMSize)
	if err != nil {
		return nil, err
	}
	opts := cfg.MMUOptions()
	opts.Logger = log
	m, err := mmu.New(cfg.Geometry, store.Bytes(), opts)
	if err != nil {
		store.Close()
		return nil, err
	}
	log.Info("machine ready", "path", path, "pages", cfg.Geometry.NumPages(),
		"policy", m.Policy().String(), "processes", len(pcbs), "cpus", cfg.CPUs)
	return &machine{cfg: cfg, store: store, mmu: m, pcbs: pcbs, log: log}, nil
}

func (mc *machine) system(c console.Console) (*system.System, error) {
	sys := system.New(mc.cfg, mc.mmu, c, mc.log)
	if err := sys.Load(mc.pcbs...); err != nil {
		return nil, err
	}
	return sys, nil
}

func runWorkload(ctx context.Context, path string) error {
	mc, err := newMachine(path)
	if err != nil {
		return err
	}
	defer mc.store.Close()

	if runGui {
		return runGuiWorkload(ctx, mc)
	}

	con := console.NewSimple()
	sys, err := mc.system(con)
	if err != nil {
		return err
	}
	runErr := sys.Run(ctx)
	_ = con.Close()

	printSummary(os.Stdout, sys)
	if runDump {
		if err := mc.mmu.Dump(os.Stdout); err != nil {
			return err
		}
	}
	if err := mc.mmu.Check(); err != nil {
		return fmt.Errorf("memory manager inconsistent after run: %w", err)
	}
	return runErr
}

func printSummary(w io.Writer, sys *system.System) {
	st := sys.Stats()
	ms := sys.MMU.Stats()
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "processes:    %d (%d finished, %d killed)\n", st.Processes, st.Finished, st.Traps)
	p.Fprintf(w, "instructions: %d\n", st.Instructions)
	p.Fprintf(w, "pages:        %d used, %d free of %d\n", ms.UsedPages, ms.FreePages, ms.TotalPages)
	p.Fprintf(w, "mmu:          %d allocs, %d frees, %d failed, %d reads, %d writes\n",
		ms.Allocs, ms.Frees, ms.Failures, ms.Reads, ms.Writes)
}
