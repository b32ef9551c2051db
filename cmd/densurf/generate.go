package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Faultbox/densurf/internal/config"
	"github.com/Faultbox/densurf/internal/export"
	"github.com/Faultbox/densurf/internal/surface"
)

var generateExample = `  # 50x50 cells over [-3, 3] as Wavefront OBJ in the current directory
  densurf generate

  # strongly negative correlation, binary PLY
  densurf generate --vcov -0.9 --format ply --out-dir meshes

  # explicit file; the format follows the extension
  densurf generate --npoints 200 --out surface.stl`

type generateOptions struct {
	out         string
	name        string
	flipWinding bool
}

func newCmdGenerate(a *app) *cobra.Command {
	o := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Build a surface and write it as a mesh file",
		Example: generateExample,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return a.runGenerate(c, o)
		},
	}

	config.RegisterSurfaceFlags(cmd.Flags())
	config.RegisterOutputFlags(cmd.Flags())
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Output file; overrides --out-dir and infers the format from the extension")
	cmd.Flags().StringVar(&o.name, "name", meshName, "Mesh name")
	cmd.Flags().BoolVar(&o.flipWinding, "flip-winding", false, "Reverse face winding (counter-clockwise from +Z)")
	return cmd
}

func (a *app) runGenerate(c *cobra.Command, o *generateOptions) error {
	d, err := a.build(c.Context())
	if err != nil {
		return err
	}
	if o.flipWinding {
		d = d.FlipWinding()
	}

	var path string
	if o.out != "" {
		format, err := export.FormatFromPath(o.out)
		if err != nil {
			return err
		}
		if err := export.Descriptor(o.out, format, o.name, d); err != nil {
			return err
		}
		path = o.out
	} else {
		format, err := export.ParseFormat(a.cfg.Output.Format)
		if err != nil {
			return err
		}
		w := &export.Writer{Dir: a.cfg.Output.Dir, Format: format}
		h, err := surface.Emit(w, o.name, d)
		if err != nil {
			return err
		}
		path = h.(*export.File).Path
	}

	fmt.Fprintf(a.out, "%s: %d vertices, %d faces -> %s\n",
		o.name, len(d.Vertices), len(d.Faces), filepath.ToSlash(path))
	return nil
}
