package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/densurf/internal/config"
	"github.com/Faultbox/densurf/internal/logger"
	"github.com/Faultbox/densurf/internal/preview"
	"github.com/Faultbox/densurf/internal/surface"
)

type previewOptions struct {
	png  string
	html string
}

func newCmdPreview(a *app) *cobra.Command {
	o := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Plot the surface as a heat map PNG and/or an interactive HTML chart",
		Long: `preview plots the sampled heights. Without --png or --html a heat map is
written to <out-dir>/bivar_normal_curve.png.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return a.runPreview(c, o)
		},
	}
	config.RegisterSurfaceFlags(cmd.Flags())
	config.RegisterPreviewFlags(cmd.Flags())
	cmd.Flags().String(config.FlagOutDir, "", "Output directory for the default PNG")
	cmd.Flags().StringVar(&o.png, "png", "", "Heat map PNG path")
	cmd.Flags().StringVar(&o.html, "html", "", "Interactive 3-D chart HTML path")
	return cmd
}

func (a *app) runPreview(c *cobra.Command, o *previewOptions) error {
	if o.png == "" && o.html == "" {
		o.png = filepath.Join(a.cfg.Output.Dir, meshName+".png")
	}

	d, err := a.build(c.Context())
	if err != nil {
		return err
	}

	if o.png != "" {
		opts := preview.DefaultHeatmapOptions()
		opts.Width = a.cfg.Preview.Width
		opts.Height = a.cfg.Preview.Height
		opts.Contours = a.cfg.Preview.Contours
		opts.Title = title(a.cfg.Surface)
		if err := writeFile(o.png, func(f *os.File) error {
			return preview.HeatmapPNG(f, d, opts)
		}); err != nil {
			return fmt.Errorf("heat map: %w", err)
		}
		fmt.Fprintf(a.out, "heat map -> %s\n", filepath.ToSlash(o.png))
	}

	if o.html != "" {
		opts := preview.ChartOptions{
			Title:  title(a.cfg.Surface),
			Theme:  a.cfg.Preview.Theme,
			Width:  a.cfg.Preview.Width,
			Params: a.cfg.Surface,
		}
		if err := writeFile(o.html, func(f *os.File) error {
			return preview.Surface3DHTML(f, d, opts)
		}); err != nil {
			return fmt.Errorf("chart: %w", err)
		}
		fmt.Fprintf(a.out, "chart -> %s\n", filepath.ToSlash(o.html))
	}
	return nil
}

func title(p surface.Params) string {
	return fmt.Sprintf("Bivariate normal density, ρ = %g", p.Correlation)
}

// writeFile creates path (and its directory) and hands it to fill.
func writeFile(path string, fill func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Debug("file written", zap.String("path", path))
	return nil
}
