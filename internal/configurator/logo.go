package configurator

import (
	"image"

	"umbrella-configurator/internal/composite"
)

// Logo is the decoded upload together with what the user sent.
type Logo struct {
	img      *image.NRGBA
	Name     string
	MIMEType string
	Size     int64
}

var _ composite.Overlay = (*Logo)(nil)

// Image returns the decoded logo.
func (l *Logo) Image() (image.Image, error) {
	if l == nil || l.img == nil {
		return nil, ErrNoLogo
	}
	return l.img, nil
}

// Bounds returns the natural logo size.
func (l *Logo) Bounds() image.Rectangle {
	if l == nil || l.img == nil {
		return image.Rectangle{}
	}
	return l.img.Bounds()
}

// LogoInfo describes the loaded logo in a Snapshot.
type LogoInfo struct {
	Name          string
	MIMEType      string
	Size          int64
	Width, Height int
}

func (l *Logo) info() *LogoInfo {
	if l == nil {
		return nil
	}
	b := l.Bounds()
	return &LogoInfo{Name: l.Name, MIMEType: l.MIMEType, Size: l.Size, Width: b.Dx(), Height: b.Dy()}
}
