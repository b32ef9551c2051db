package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Faultbox/densurf/internal/config"
)

func newCmdInfo(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print grid size, counts, peak and bounds without writing files",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return a.runInfo(c)
		},
	}
	config.RegisterSurfaceFlags(cmd.Flags())
	return cmd
}

func (a *app) runInfo(c *cobra.Command) error {
	p := a.cfg.Surface
	d, err := a.build(c.Context())
	if err != nil {
		return err
	}

	g := p.Grid()
	idx, peak := d.Peak()
	b := d.Bounds()

	// group digits in the counts of large grids
	pr := message.NewPrinter(language.English)

	fmt.Fprintf(a.out, "Domain:    [%g, %g] step %g\n", p.Min, p.Max, g.Step)
	pr.Fprintf(a.out, "Grid:      %d x %d\n", d.Side, d.Side)
	pr.Fprintf(a.out, "Vertices:  %d\n", len(d.Vertices))
	pr.Fprintf(a.out, "Faces:     %d\n", len(d.Faces))
	fmt.Fprintf(a.out, "Corr:      %g\n", p.Correlation)
	fmt.Fprintf(a.out, "Peak:      #%d (%.4f, %.4f, %.6f)\n", idx, peak.X, peak.Y, peak.Z)
	fmt.Fprintf(a.out, "Bounds:    (%.4f, %.4f, %.6f) - (%.4f, %.4f, %.6f)\n",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	return nil
}
