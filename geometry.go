package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mmusim/config"
	"mmusim/mmu"
)

func init() {
	rootCmd.AddCommand(newGeometryCmd())
}

func newGeometryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geometry [workload.yaml]",
		Short: "Show the address layout of a workload",
		Long: `The geometry command prints page size, page and segment counts and the
size of the virtual address space. Without a workload the default geometry
is shown.

Example:
  mmusim geometry
  mmusim geometry testdata/two-procs.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := mmu.DefaultGeometry
			if len(args) == 1 {
				cfg, err := config.Load(args[0])
				if err != nil {
					return err
				}
				g = cfg.Geometry
			}
			printGeometry(os.Stdout, g)
			return nil
		},
	}
}

func printGeometry(w io.Writer, g mmu.Geometry) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "address bits:      %d (segment %d, page %d, offset %d)\n",
		g.AddressBits, g.SegmentBits(), g.PageBits, g.OffsetBits)
	p.Fprintf(w, "page size:         %d bytes\n", g.PageSize())
	p.Fprintf(w, "physical memory:   %d bytes, %d pages\n", g.RAMSize, g.NumPages())
	p.Fprintf(w, "segments:          %d of %d pages\n", g.MaxSegments(), g.PagesPerSegment())
	p.Fprintf(w, "virtual space:     %d bytes per process\n", g.AddressSpace())
}
