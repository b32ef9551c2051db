// surfview is an interactive viewer for bivariate normal density surfaces.
// The left panel holds the generation dialog; "Add" places a new surface
// object at the 3-D cursor of an in-memory scene.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/Faultbox/densurf/internal/config"
	"github.com/Faultbox/densurf/internal/logger"
)

func main() {
	runtime.LockOSThread()

	fs := pflag.NewFlagSet("surfview", pflag.ExitOnError)
	config.RegisterGlobalFlags(fs)
	config.RegisterSurfaceFlags(fs)
	fs.String(config.FlagOutDir, "", "Directory for screenshots")
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
}
