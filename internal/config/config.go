package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Config holds all configurable paths and configurator settings.
type Config struct {
	// Paths
	AssetDir  string `json:"asset_dir"`
	OutputDir string `json:"output_dir"`

	// Product variants
	Variants       []Variant `json:"variants"`
	DefaultVariant string    `json:"default_variant"`

	// Upload gate
	MaxUploadBytes   int64    `json:"max_upload_bytes"`
	AllowedMIMETypes []string `json:"allowed_mime_types"`

	// Transform limits
	Scale    Range `json:"scale"`
	Rotation Range `json:"rotation"`

	// Drag-to-orbit
	Orbit Orbit `json:"orbit"`

	// Timing and export
	TransitionDelayMS int    `json:"transition_delay_ms"`
	ExportFileName    string `json:"export_file_name"`
	ExportFormat      string `json:"export_format"`
	Workers           int    `json:"workers"`
}

// Variant is one selectable product color.
type Variant struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Accent string `json:"accent"` // "#rrggbb", used for the UI theme
	Asset  string `json:"asset"`  // optional explicit base image path
}

// Range is an integer slider range with its rest value.
type Range struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Orbit configures the drag-to-orbit tilt.
type Orbit struct {
	MaxX         float64 `json:"max_x"`
	MaxY         float64 `json:"max_y"`
	SensitivityX float64 `json:"sensitivity_x"`
	SensitivityY float64 `json:"sensitivity_y"`
	SpringBackMS int     `json:"spring_back_ms"`
}

// Defaults matching the shipped umbrella configurator.
const (
	DefaultTransitionDelayMS = 2500
	DefaultMaxUploadBytes    = 5 * 1024 * 1024
	DefaultExportFileName    = "custom-umbrella.png"
	DefaultExportFormat      = "png"
	DefaultSpringBackMS      = 100
)

// DefaultVariants is the closed set of umbrella colors.
func DefaultVariants() []Variant {
	return []Variant{
		{ID: "blue", Label: "Blue", Accent: "#2196f3"},
		{ID: "pink", Label: "Pink", Accent: "#e91e63"},
		{ID: "yellow", Label: "Yellow", Accent: "#fbc02d"},
	}
}

// Default returns a fully resolved config with no file and no flags.
func Default() Config {
	var c Config
	c.Resolve(Flags{})
	return c
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.AssetDir != "" {
		c.AssetDir = flags.AssetDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Variant != "" {
		c.DefaultVariant = flags.Variant
	}
	if flags.Format != "" {
		c.ExportFormat = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.TransitionDelayMS > 0 {
		c.TransitionDelayMS = flags.TransitionDelayMS
	}

	if c.AssetDir == "" {
		c.AssetDir = detectAssetDir()
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}

	// Resolve per-variant asset paths against the asset dir
	if len(c.Variants) == 0 {
		c.Variants = DefaultVariants()
	}
	for i := range c.Variants {
		v := &c.Variants[i]
		v.ID = strings.ToLower(strings.TrimSpace(v.ID))
		if v.Label == "" && v.ID != "" {
			v.Label = strings.ToUpper(v.ID[:1]) + v.ID[1:]
		}
		if v.Asset != "" && !filepath.IsAbs(v.Asset) && c.AssetDir != "" {
			v.Asset = filepath.Join(c.AssetDir, v.Asset)
		}
	}
	if c.DefaultVariant == "" && len(c.Variants) > 0 {
		c.DefaultVariant = c.Variants[0].ID
	}
	c.DefaultVariant = strings.ToLower(c.DefaultVariant)

	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(c.AllowedMIMETypes) == 0 {
		c.AllowedMIMETypes = []string{"image/jpeg", "image/png"}
	}

	if c.Scale == (Range{}) {
		c.Scale = Range{Min: 50, Max: 150, Default: 100}
	}
	if c.Rotation == (Range{}) {
		c.Rotation = Range{Min: -180, Max: 180, Default: 0}
	}

	if c.Orbit.MaxX <= 0 {
		c.Orbit.MaxX = 15
	}
	if c.Orbit.MaxY <= 0 {
		c.Orbit.MaxY = 30
	}
	if c.Orbit.SensitivityX <= 0 {
		c.Orbit.SensitivityX = 0.1
	}
	if c.Orbit.SensitivityY <= 0 {
		c.Orbit.SensitivityY = 0.2
	}
	if c.Orbit.SpringBackMS <= 0 {
		c.Orbit.SpringBackMS = DefaultSpringBackMS
	}

	// A negative delay in the file means "no delay" (used by tests and headless runs)
	if c.TransitionDelayMS == 0 {
		c.TransitionDelayMS = DefaultTransitionDelayMS
	}
	if c.TransitionDelayMS < 0 {
		c.TransitionDelayMS = 0
	}
	if c.ExportFileName == "" {
		c.ExportFileName = DefaultExportFileName
	}
	if c.ExportFormat == "" {
		c.ExportFormat = DefaultExportFormat
	}
	c.ExportFormat = strings.ToLower(c.ExportFormat)
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate reports inconsistent settings left after Resolve.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Variants) == 0 {
		errs = append(errs, errors.New("no variants configured"))
	}
	seen := make(map[string]bool, len(c.Variants))
	for _, v := range c.Variants {
		if v.ID == "" {
			errs = append(errs, errors.New("variant with empty id"))
			continue
		}
		if seen[v.ID] {
			errs = append(errs, fmt.Errorf("duplicate variant %q", v.ID))
		}
		seen[v.ID] = true
	}
	if c.DefaultVariant != "" && !seen[c.DefaultVariant] {
		errs = append(errs, fmt.Errorf("default variant %q is not configured", c.DefaultVariant))
	}
	for name, r := range map[string]Range{"scale": c.Scale, "rotation": c.Rotation} {
		if r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: min %d > max %d", name, r.Min, r.Max))
		} else if r.Default < r.Min || r.Default > r.Max {
			errs = append(errs, fmt.Errorf("%s: default %d outside [%d,%d]", name, r.Default, r.Min, r.Max))
		}
	}
	if c.Scale.Min <= 0 {
		errs = append(errs, fmt.Errorf("scale: min %d must be positive", c.Scale.Min))
	}
	switch c.ExportFormat {
	case "png", "webp":
	default:
		errs = append(errs, fmt.Errorf("unknown export format %q", c.ExportFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Variant returns the configured variant with the given id.
func (c *Config) Variant(id string) (Variant, bool) {
	id = strings.ToLower(id)
	for _, v := range c.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// VariantIDs lists variant ids in configured order.
func (c *Config) VariantIDs() []string {
	ids := make([]string, len(c.Variants))
	for i, v := range c.Variants {
		ids[i] = v.ID
	}
	return ids
}

// TransitionDelay is the fixed latency of variant switches and uploads.
func (c *Config) TransitionDelay() time.Duration {
	return time.Duration(c.TransitionDelayMS) * time.Millisecond
}

// SpringBackDelay is how long the orbit tilt holds after release.
func (c *Config) SpringBackDelay() time.Duration {
	return time.Duration(c.Orbit.SpringBackMS) * time.Millisecond
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	AssetDir          string
	OutputDir         string
	Variant           string
	Format            string
	Workers           int
	TransitionDelayMS int
}

func detectAssetDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if info, err := os.Stat(filepath.Join(base, "images")); err == nil && info.IsDir() {
				return filepath.Join(base, "images")
			}
		}
	}

	// Try current working directory
	cwd, _ := os.Getwd()
	if info, err := os.Stat(filepath.Join(cwd, "images")); err == nil && info.IsDir() {
		return filepath.Join(cwd, "images")
	}

	return "images"
}
