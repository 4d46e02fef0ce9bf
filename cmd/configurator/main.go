// Package main is the desktop umbrella configurator.
package main

import (
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"

	"umbrella-configurator/internal/asset"
	"umbrella-configurator/internal/config"
	"umbrella-configurator/internal/configurator"
	"umbrella-configurator/internal/logging"
	"umbrella-configurator/ui/mainwindow"
)

const appID = "com.umbrella.configurator"

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	assetDir := flag.String("assets", "", "Directory with variant base images (default: auto-detect ./images)")
	delay := flag.Int("delay", 0, "Transition delay in milliseconds (default: 2500)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	log := logging.Text(os.Stderr, *verbose)

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{AssetDir: *assetDir, TransitionDelayMS: *delay})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	index := asset.IndexConfig(&cfg)
	log.Info("assets indexed", "dir", cfg.AssetDir, "variants", index.Len())

	fyneApp := app.NewWithID(appID)
	win := mainwindow.New(fyneApp, cfg)

	ctrl, err := configurator.New(cfg, asset.NewCache(index), win)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	win.Bind(ctrl)

	win.ShowAndRun()
}
