package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"umbrella-configurator/internal/transform"
)

// Manifest describes one batch run.
type Manifest struct {
	Transform transform.State `json:"transform"`
	Format    string          `json:"format"`
	Variants  []ManifestEntry `json:"variants"`
}

// ManifestEntry represents one rendered variant in the output manifest.
type ManifestEntry struct {
	Variant string `json:"variant"`
	Label   string `json:"label"`
	Accent  string `json:"accent,omitempty"`
	Image   string `json:"image,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteManifest writes the manifest for results to path.
func WriteManifest(path string, cfg Config, results []Result) error {
	m := Manifest{
		Transform: cfg.Transform,
		Format:    cfg.Format.String(),
		Variants:  make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		m.Variants[i] = ManifestEntry{
			Variant: r.Variant,
			Label:   r.Label,
			Accent:  r.Accent,
			Width:   r.Width,
			Height:  r.Height,
			Error:   r.Error,
		}
		if r.Success {
			m.Variants[i].Image = r.File
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Summary counts successful and failed results.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
