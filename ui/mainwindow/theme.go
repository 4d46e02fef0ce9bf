package mainwindow

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// variantTheme tints the default theme with the selected variant's accent.
type variantTheme struct {
	accent color.NRGBA
}

var _ fyne.Theme = (*variantTheme)(nil)

func newVariantTheme(accent string) *variantTheme {
	c, err := parseHexColor(accent)
	if err != nil {
		c = color.NRGBA{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF}
	}
	return &variantTheme{accent: c}
}

func (t *variantTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return t.accent
	case theme.ColorNameSelection:
		c := t.accent
		c.A = 0x60
		return c
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *variantTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *variantTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *variantTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

// parseHexColor parses "#rrggbb" or "#rgb".
func parseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 0xFF}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("invalid color %q", s)
	}
	return c, err
}
