// Package config handles densurf configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/densurf/internal/surface"
)

// Config holds all settings shared by densurf and surfview.
type Config struct {
	Surface surface.Params `yaml:"surface"`
	Build   BuildConfig    `yaml:"build"`
	Output  OutputConfig   `yaml:"output"`
	Preview PreviewConfig  `yaml:"preview"`
	Render  RenderConfig   `yaml:"render"`
	Viewer  ViewerConfig   `yaml:"viewer"`
	Logging LoggingConfig  `yaml:"logging"`
}

// BuildConfig controls mesh construction.
type BuildConfig struct {
	Workers int `yaml:"workers"` // 0 = sequential, <0 = GOMAXPROCS
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // obj, ply, ply-ascii, stl
}

// PreviewConfig holds plot settings.
type PreviewConfig struct {
	Width    int    `yaml:"width"`  // pixels
	Height   int    `yaml:"height"` // pixels
	Contours int    `yaml:"contours"`
	Theme    string `yaml:"theme"` // echarts theme
}

// RenderConfig holds offscreen snapshot settings.
type RenderConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Supersample int     `yaml:"supersample"`
	Azimuth     float32 `yaml:"azimuth"`   // degrees
	Elevation   float32 `yaml:"elevation"` // degrees
	Wireframe   bool    `yaml:"wireframe"`
	ShowBounds  bool    `yaml:"show_bounds"`
	ShowFloor   bool    `yaml:"show_floor"`
}

// ViewerConfig holds interactive viewer window settings.
type ViewerConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	VSync  bool `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Surface: surface.DefaultParams(),
		Build: BuildConfig{
			Workers: 0,
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: "obj",
		},
		Preview: PreviewConfig{
			Width:    800,
			Height:   800,
			Contours: 8,
			Theme:    "white",
		},
		Render: RenderConfig{
			Width:       1024,
			Height:      768,
			Supersample: 2,
			Azimuth:     45,
			Elevation:   30,
			Wireframe:   false,
			ShowBounds:  true,
			ShowFloor:   true,
		},
		Viewer: ViewerConfig{
			Width:  1400,
			Height: 900,
			VSync:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks settings that are not covered by their consumers.
func (c *Config) Validate() error {
	if err := c.Surface.Validate(); err != nil {
		return fmt.Errorf("surface: %w", err)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview: size %dx%d must be positive", c.Preview.Width, c.Preview.Height)
	}
	if c.Preview.Contours < 0 {
		return fmt.Errorf("preview: contours %d must not be negative", c.Preview.Contours)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render: size %dx%d must be positive", c.Render.Width, c.Render.Height)
	}
	if c.Render.Supersample < 1 || c.Render.Supersample > 4 {
		return fmt.Errorf("render: supersample %d outside [1, 4]", c.Render.Supersample)
	}
	return nil
}
