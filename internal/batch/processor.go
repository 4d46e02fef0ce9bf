// Package batch renders one logo design across every product variant.
package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"umbrella-configurator/internal/asset"
	"umbrella-configurator/internal/composite"
	"umbrella-configurator/internal/config"
	"umbrella-configurator/internal/logging"
	"umbrella-configurator/internal/transform"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Assets    asset.Resolver
	Logo      composite.Overlay // nil renders the bare products
	Transform transform.State
	Format    composite.Format
	Workers   int

	// Progress receives a line every ProgressEvery while the run is going.
	// Nil disables progress output.
	Progress      io.Writer
	ProgressEvery time.Duration
}

// Result holds the outcome of rendering one variant.
type Result struct {
	Variant string
	Label   string
	Accent  string
	File    string // relative to OutputDir
	Width   int
	Height  int
	Success bool
	Error   string
}

// Run renders every variant using a worker pool. Results keep the order of
// variants.
func Run(cfg Config, variants []config.Variant) []Result {
	total := len(variants)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	log := logging.Component("batch")
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		every := cfg.ProgressEvery
		if every <= 0 {
			every = 2 * time.Second
		}
		go func() {
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f variants/sec\n", p, total, float64(p)/elapsed)
					}
				}
			}
		}()
	}

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processVariant(cfg, variants[idx])
				processed.Add(1)
				if r := results[idx]; !r.Success {
					log.Warn("variant failed", "variant", r.Variant, "err", r.Error)
				}
			}
		}()
	}

	for i := range variants {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	log.Info("batch finished", "variants", total, "elapsed", time.Since(start))
	return results
}

func processVariant(cfg Config, v config.Variant) Result {
	res := Result{Variant: v.ID, Label: v.Label, Accent: v.Accent}

	base, err := cfg.Assets.Resolve(v.ID)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	img, err := composite.Render(base, cfg.Logo, cfg.Transform)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	b := img.Bounds()
	res.Width, res.Height = b.Dx(), b.Dy()

	res.File = v.ID + cfg.Format.Ext()
	outPath := filepath.Join(cfg.OutputDir, res.File)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := composite.Encode(f, img, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}
