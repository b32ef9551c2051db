package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/densurf/internal/config"
	"github.com/Faultbox/densurf/internal/logger"
	"github.com/Faultbox/densurf/internal/scene"
	"github.com/Faultbox/densurf/internal/surface"
)

// app carries state shared by the subcommands once flags are parsed.
type app struct {
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "densurf",
		Short: "Generate bivariate normal density surfaces",
		Long: `densurf samples the density of a zero-mean, unit-variance bivariate
normal distribution with correlation vcov on a square grid and turns the
samples into a quad mesh.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return a.setup(c)
		},
	}
	config.RegisterGlobalFlags(cmd.PersistentFlags())

	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.AddCommand(
		newCmdGenerate(a),
		newCmdInfo(a),
		newCmdPreview(a),
		newCmdRender(a),
	)
	return cmd
}

// setup loads the layered configuration and starts logging.
func (a *app) setup(c *cobra.Command) error {
	cfg, err := config.Load(c.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: a.errOut,
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	a.cfg = cfg
	logger.Debug("configuration loaded",
		zap.String("command", c.Name()),
		zap.Int("npoints", cfg.Surface.PointsPerRow),
		zap.Float64("vcov", cfg.Surface.Correlation),
	)
	return nil
}

// build runs the configured builder.
func (a *app) build(ctx context.Context) (*surface.Descriptor, error) {
	b := &surface.Builder{Workers: a.cfg.Build.Workers}
	d, err := b.Build(ctx, a.cfg.Surface)
	if err != nil {
		return nil, err
	}
	logger.Debug("surface built",
		zap.Int("side", d.Side),
		zap.Int("vertices", len(d.Vertices)),
		zap.Int("faces", len(d.Faces)),
	)
	return d, nil
}

// meshName is used for output files and mesh records.
const meshName = scene.SurfaceMeshName
