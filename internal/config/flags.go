package config

import (
	"github.com/spf13/pflag"

	"github.com/Faultbox/densurf/internal/surface"
)

// Flag names shared by the commands.
const (
	FlagConfig   = "config"
	FlagDebug    = "debug"
	FlagLogLevel = "log-level"
	FlagLogFile  = "log-file"
	FlagJSONLogs = "json-logs"

	FlagPoints      = "npoints"
	FlagMin         = "vmin"
	FlagMax         = "vmax"
	FlagCorrelation = "vcov"
	FlagZScale      = "zscale"
	FlagNoFaces     = "no-faces"
	FlagWorkers     = "workers"

	FlagOutDir = "out-dir"
	FlagFormat = "format"

	FlagWidth       = "width"
	FlagHeight      = "height"
	FlagSupersample = "supersample"
	FlagAzimuth     = "azimuth"
	FlagElevation   = "elevation"
	FlagWireframe   = "wireframe"
	FlagContours    = "contours"
	FlagTheme       = "theme"
)

// RegisterGlobalFlags adds config file and logging flags.
func RegisterGlobalFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file")
	fs.Bool(FlagDebug, false, "Enable debug logging")
	fs.String(FlagLogLevel, "", "Log level (debug, info, warn, error)")
	fs.String(FlagLogFile, "", "Also write logs to this file (rotated)")
	fs.Bool(FlagJSONLogs, false, "Emit logs as JSON")
}

// RegisterSurfaceFlags adds the surface parameter flags.
func RegisterSurfaceFlags(fs *pflag.FlagSet) {
	d := surface.DefaultParams()
	fs.Int(FlagPoints, d.PointsPerRow, "Grid intervals per axis")
	fs.Float64(FlagMin, d.Min, "Lower bound of both axes")
	fs.Float64(FlagMax, d.Max, "Upper bound of both axes")
	fs.Float64(FlagCorrelation, d.Correlation, "Correlation coefficient")
	fs.Float64(FlagZScale, d.ZScale, "Height multiplier")
	fs.Bool(FlagNoFaces, false, "Emit a point cloud without faces")
	fs.Int(FlagWorkers, 0, "Parallel build workers (0 = sequential, -1 = all CPUs)")
}

// RegisterOutputFlags adds export flags.
func RegisterOutputFlags(fs *pflag.FlagSet) {
	fs.String(FlagOutDir, "", "Output directory")
	fs.String(FlagFormat, "", "Mesh format (obj, ply, ply-ascii, stl)")
}

// RegisterPreviewFlags adds plot flags.
func RegisterPreviewFlags(fs *pflag.FlagSet) {
	fs.Int(FlagWidth, 0, "Image width in pixels")
	fs.Int(FlagHeight, 0, "Image height in pixels")
	fs.Int(FlagContours, 0, "Number of contour levels")
	fs.String(FlagTheme, "", "Chart theme for HTML output")
}

// RegisterRenderFlags adds snapshot flags.
func RegisterRenderFlags(fs *pflag.FlagSet) {
	fs.Int(FlagWidth, 0, "Image width in pixels")
	fs.Int(FlagHeight, 0, "Image height in pixels")
	fs.Int(FlagSupersample, 0, "Supersampling factor")
	fs.Float32(FlagAzimuth, 0, "Camera azimuth in degrees")
	fs.Float32(FlagElevation, 0, "Camera elevation in degrees")
	fs.Bool(FlagWireframe, false, "Draw faces as wireframe")
}

// ConfigPath returns the explicit config path if provided via --config.
func ConfigPath(fs *pflag.FlagSet) string {
	if fs == nil || fs.Lookup(FlagConfig) == nil {
		return ""
	}
	path, _ := fs.GetString(FlagConfig)
	return path
}

// applyFlags applies flags the user actually set. Flags not registered on
// fs are ignored, so each command only overrides what it exposes.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	var err error
	setInt := func(name string, dst *int) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetInt(name)
		}
	}
	setFloat := func(name string, dst *float64) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetFloat64(name)
		}
	}
	setFloat32 := func(name string, dst *float32) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetFloat32(name)
		}
	}
	setString := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetBool(name)
		}
	}

	setString(FlagLogLevel, &cfg.Logging.Level)
	setString(FlagLogFile, &cfg.Logging.LogFile)
	var debug, asJSON bool
	setBool(FlagDebug, &debug)
	if fs.Changed(FlagDebug) {
		switch {
		case debug:
			cfg.Logging.Level = "debug"
		case cfg.Logging.Level == "debug" && !fs.Changed(FlagLogLevel):
			cfg.Logging.Level = "info"
		}
	}
	setBool(FlagJSONLogs, &asJSON)
	if fs.Changed(FlagJSONLogs) {
		cfg.Logging.Format = "console"
		if asJSON {
			cfg.Logging.Format = "json"
		}
	}

	setInt(FlagPoints, &cfg.Surface.PointsPerRow)
	setFloat(FlagMin, &cfg.Surface.Min)
	setFloat(FlagMax, &cfg.Surface.Max)
	setFloat(FlagCorrelation, &cfg.Surface.Correlation)
	setFloat(FlagZScale, &cfg.Surface.ZScale)
	var noFaces bool
	setBool(FlagNoFaces, &noFaces)
	if fs.Changed(FlagNoFaces) {
		cfg.Surface.AddFaces = !noFaces
	}
	setInt(FlagWorkers, &cfg.Build.Workers)

	setString(FlagOutDir, &cfg.Output.Dir)
	setString(FlagFormat, &cfg.Output.Format)

	setInt(FlagContours, &cfg.Preview.Contours)
	setString(FlagTheme, &cfg.Preview.Theme)

	// width/height belong to whichever of preview or render registered them
	if fs.Lookup(FlagSupersample) != nil {
		setInt(FlagWidth, &cfg.Render.Width)
		setInt(FlagHeight, &cfg.Render.Height)
	} else {
		setInt(FlagWidth, &cfg.Preview.Width)
		setInt(FlagHeight, &cfg.Preview.Height)
	}
	setInt(FlagSupersample, &cfg.Render.Supersample)
	setFloat32(FlagAzimuth, &cfg.Render.Azimuth)
	setFloat32(FlagElevation, &cfg.Render.Elevation)
	setBool(FlagWireframe, &cfg.Render.Wireframe)

	return err
}
