package mainwindow

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"umbrella-configurator/internal/config"
	"umbrella-configurator/internal/configurator"
	"umbrella-configurator/internal/transform"
)

type mapResolver map[string]image.Image

func (m mapResolver) Resolve(variant string) (image.Image, error) {
	return m[variant], nil
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#2196f3", color.NRGBA{0x21, 0x96, 0xf3, 0xff}, true},
		{"#fff", color.NRGBA{0xff, 0xff, 0xff, 0xff}, true},
		{"blue", color.NRGBA{A: 0xff}, false},
	}
	for _, tt := range tests {
		got, err := parseHexColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseHexColor(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWindowFollowsController(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	cfg := config.Config{AssetDir: "images", TransitionDelayMS: -1}
	cfg.Resolve(config.Flags{})
	assets := mapResolver{
		"blue": solid(100, 100, color.NRGBA{0, 0, 255, 255}),
		"pink": solid(100, 100, color.NRGBA{255, 0, 128, 255}),
	}

	mw := New(a, cfg)
	ctrl, err := configurator.New(cfg, assets, mw)
	if err != nil {
		t.Fatal(err)
	}
	mw.Bind(ctrl)
	defer ctrl.Close()

	if mw.logoPanel.Visible() {
		t.Error("logo controls should be hidden before an upload")
	}
	if mw.stage.image.Image == nil {
		t.Error("stage should show the initial variant")
	}

	var buf bytes.Buffer
	png.Encode(&buf, solid(20, 10, color.NRGBA{255, 0, 0, 255}))
	done, err := ctrl.UploadLogo("logo.png", "image/png", buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("upload did not finish")
	}
	if !mw.logoPanel.Visible() {
		t.Error("logo controls should show after an upload")
	}

	ctrl.AdjustScale(120)
	ctrl.CommitAdjustment()
	if mw.scale.Value != 120 || mw.scaleLabel.Text != "120%" {
		t.Errorf("scale slider = %v label %q", mw.scale.Value, mw.scaleLabel.Text)
	}
	if mw.undoBtn.Disabled() || !mw.redoBtn.Disabled() {
		t.Error("undo should be enabled and redo disabled after a commit")
	}

	ctrl.Undo()
	if mw.scale.Value != 100 {
		t.Errorf("scale after undo = %v, want 100", mw.scale.Value)
	}
	if got := ctrl.Snapshot().Transform; got != transform.Default() {
		t.Errorf("slider sync echoed into the controller: %v", got)
	}
}
