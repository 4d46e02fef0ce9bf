package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"umbrella-configurator/internal/asset"
	"umbrella-configurator/internal/batch"
	"umbrella-configurator/internal/composite"
	"umbrella-configurator/internal/config"
	"umbrella-configurator/internal/configurator"
	"umbrella-configurator/internal/logging"
	"umbrella-configurator/internal/upload"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	assetDir := flag.String("assets", "", "Directory with variant base images (default: auto-detect ./images)")
	variant := flag.String("variant", "", "Variant to render (default: config default)")
	logoPath := flag.String("logo", "", "Logo image (PNG or JPEG)")
	scale := flag.Int("scale", 100, "Logo scale in percent")
	rotate := flag.Int("rotate", 0, "Logo rotation in degrees")
	out := flag.String("out", "", "Output file, or output directory with -all")
	format := flag.String("format", "", "Export format: png or webp (default: png)")
	all := flag.Bool("all", false, "Render every variant into -out plus manifest.json")
	workers := flag.Int("workers", 0, "Number of worker goroutines for -all (default: NumCPU)")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	logging.Text(os.Stderr, *verbose)

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	flags := config.Flags{
		AssetDir: *assetDir,
		Variant:  *variant,
		Format:   *format,
		Workers:  *workers,
	}
	if *all {
		flags.OutputDir = *out
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Build asset index
	index := asset.IndexConfig(&cfg)
	cache := asset.NewCache(index)
	fmt.Printf("Assets: %d/%d variants indexed in %s\n", index.Len(), len(cfg.Variants), cfg.AssetDir)

	// Headless runs skip the UI transition delay.
	ctrl, err := configurator.New(cfg, cache, nil, configurator.WithDelay(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Close()

	if *logoPath != "" {
		if err := loadLogo(ctrl, *logoPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", upload.Message(err))
			fmt.Fprintf(os.Stderr, "  %v\n", err)
			os.Exit(1)
		}
		ctrl.AdjustScale(*scale)
		ctrl.AdjustRotation(*rotate)
		ctrl.CommitAdjustment()
	}

	snap := ctrl.Snapshot()
	fmt.Printf("Transform: %s\n", snap.Transform)

	if *all {
		os.Exit(renderAll(cfg, ctrl, cache))
	}

	exp, err := ctrl.Export()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path, err = exp.Save(cfg.OutputDir)
	} else {
		err = os.WriteFile(path, exp.Data, 0644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %s (%dx%d %s, variant %s)\n", path, exp.Width, exp.Height, exp.Format, snap.Variant)
}

func loadLogo(ctrl *configurator.Controller, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Declared type comes from the extension; unknown extensions are sniffed.
	var mimeType string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mimeType = "image/png"
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	}
	done, err := ctrl.UploadLogo(filepath.Base(path), mimeType, data)
	if err != nil {
		return err
	}
	return <-done
}

func renderAll(cfg config.Config, ctrl *configurator.Controller, assets asset.Resolver) int {
	format, err := composite.ParseFormat(cfg.ExportFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	batchCfg := batch.Config{
		OutputDir: cfg.OutputDir,
		Assets:    assets,
		Transform: ctrl.Snapshot().Transform,
		Format:    format,
		Workers:   cfg.Workers,
		Progress:  os.Stdout,
	}
	if logo := ctrl.Logo(); logo != nil {
		batchCfg.Logo = composite.ImageOverlay(logo)
	}

	fmt.Printf("Umbrella configurator → %s\n", strings.ToUpper(format.String()))
	fmt.Printf("Variants: %d, Workers: %d\n", len(cfg.Variants), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batchCfg, cfg.Variants)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	success, failed := batch.Summary(results)
	fmt.Printf("Rendered: %d/%d\n", success, len(results))
	if failed > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, r := range results {
			if !r.Success {
				fmt.Printf("  %s: %s\n", r.Variant, r.Error)
			}
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, batchCfg, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		return 1
	}
	return 0
}

