package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"umbrella-configurator/internal/composite"
	"umbrella-configurator/internal/config"
	"umbrella-configurator/internal/transform"
)

type mapResolver map[string]image.Image

func (m mapResolver) Resolve(variant string) (image.Image, error) {
	if img, ok := m[variant]; ok {
		return img, nil
	}
	return nil, errors.New("missing")
}

type brokenOverlay struct{}

func (brokenOverlay) Image() (image.Image, error) { return nil, errors.New("corrupt") }

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestRunRendersEveryVariant(t *testing.T) {
	out := t.TempDir()
	assets := mapResolver{
		"blue":   solid(120, 80, color.NRGBA{0, 0, 255, 255}),
		"pink":   solid(100, 100, color.NRGBA{255, 0, 128, 255}),
		"yellow": solid(60, 40, color.NRGBA{255, 255, 0, 255}),
	}
	red := color.NRGBA{255, 0, 0, 255}
	cfg := Config{
		OutputDir: out,
		Assets:    assets,
		Logo:      composite.ImageOverlay(solid(10, 10, red)),
		Transform: transform.Default(),
		Format:    composite.FormatPNG,
		Workers:   2,
	}

	results := Run(cfg, config.DefaultVariants())
	if ok, failed := Summary(results); ok != 3 || failed != 0 {
		t.Fatalf("summary = %d ok / %d failed: %+v", ok, failed, results)
	}
	for i, want := range []string{"blue", "pink", "yellow"} {
		r := results[i]
		if r.Variant != want || r.File != want+".png" {
			t.Errorf("results[%d] = %+v, want variant %s", i, r, want)
		}
		data, err := os.ReadFile(filepath.Join(out, r.File))
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: %v", r.File, err)
		}
		base, _ := assets.Resolve(want)
		if img.Bounds() != base.Bounds() {
			t.Errorf("%s: bounds = %v, want %v", r.File, img.Bounds(), base.Bounds())
		}
		ax, ay := base.Bounds().Dx()/2, base.Bounds().Dy()*85/100
		if got := color.NRGBAModel.Convert(img.At(ax, ay)); got != red {
			t.Errorf("%s: anchor = %v, want logo red", r.File, got)
		}
	}
}

func TestRunReportsFailures(t *testing.T) {
	out := t.TempDir()
	cfg := Config{
		OutputDir: out,
		Assets:    mapResolver{"blue": solid(10, 10, color.NRGBA{0, 0, 255, 255})},
		Logo:      brokenOverlay{},
		Workers:   4,
	}
	variants := []config.Variant{{ID: "blue"}, {ID: "green"}}

	results := Run(cfg, variants)
	if ok, failed := Summary(results); ok != 0 || failed != 2 {
		t.Errorf("summary = %d/%d, want 0/2", ok, failed)
	}
	if results[1].Error != "missing" {
		t.Errorf("green error = %q", results[1].Error)
	}

	path := filepath.Join(out, "manifest.json")
	if err := WriteManifest(path, cfg, results); err != nil {
		t.Fatal(err)
	}
	var m Manifest
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if len(m.Variants) != 2 || m.Variants[0].Image != "" || m.Variants[0].Error == "" {
		t.Errorf("manifest = %+v", m)
	}
	if m.Format != "png" {
		t.Errorf("format = %q", m.Format)
	}
}

func TestManifestListsImages(t *testing.T) {
	cfg := Config{Transform: transform.State{Scale: 120, Rotation: 45}, Format: composite.FormatWebP}
	results := []Result{{Variant: "pink", Label: "Pink", File: "pink.webp", Width: 10, Height: 20, Success: true}}

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(path, cfg, results); err != nil {
		t.Fatal(err)
	}
	var m Manifest
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Transform != cfg.Transform || m.Format != "webp" {
		t.Errorf("manifest header = %+v", m)
	}
	if e := m.Variants[0]; e.Image != "pink.webp" || e.Width != 10 || e.Height != 20 {
		t.Errorf("entry = %+v", e)
	}
}
