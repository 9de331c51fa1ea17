package gbase

import (
	"errors"
	"image/color"
)

// ---- Exit Call ----

var ErrExit = errors.New("exit request")

// --- UI constants ---

const (
	WindowW int = 1000
	WindowH int = 700

	TrayW   int = 220 // right-hand tray column
	HeaderH int = 64
	Margin  int = 24
)

// ---- Styles (palettes) ----

type Palette struct {
	Bg           color.RGBA
	ButtonFill   color.RGBA
	ButtonStroke color.RGBA
	ButtonText   color.RGBA
	MenuText     color.RGBA
	Accent       color.RGBA
	ModalBg      color.RGBA

	// board
	Zone      color.RGBA
	ZoneHover color.RGBA
	Correct   color.RGBA
	Wrong     color.RGBA
}

func (p Palette) String() string {
	switch p {
	case LightPalette:
		return "light"
	case DarkPalette:
		return "dark"
	default:
	}
	return ""
}

func PaletteFromString(p string) Palette {
	switch p {
	case "dark":
		return DarkPalette
	default:
	}
	return LightPalette
}

var LightPalette = Palette{
	Bg:           color.RGBA{0xf5, 0xf1, 0xe8, 0xff},
	ButtonFill:   color.RGBA{0xfd, 0xfb, 0xf6, 0xff},
	ButtonStroke: color.RGBA{0xa8, 0x9b, 0x8c, 0xff},
	ButtonText:   color.RGBA{0x33, 0x2b, 0x24, 0xff},
	MenuText:     color.RGBA{0x33, 0x2b, 0x24, 0xff},
	Accent:       color.RGBA{0xc0, 0x6c, 0x2e, 0xff},
	ModalBg:      color.RGBA{0x1a, 0x14, 0x10, 0x88},
	Zone:         color.RGBA{0xe4, 0xe7, 0xeb, 0xff},
	ZoneHover:    color.RGBA{0xbf, 0xdf, 0xf5, 0xff},
	Correct:      color.RGBA{0x3c, 0xb3, 0x71, 0xff},
	Wrong:        color.RGBA{0xd9, 0x53, 0x4f, 0xff},
}

var DarkPalette = Palette{
	Bg:           color.RGBA{0x17, 0x14, 0x12, 0xff},
	ButtonFill:   color.RGBA{0x26, 0x22, 0x1e, 0xff},
	ButtonStroke: color.RGBA{0xc9, 0xbe, 0xb1, 0xff},
	ButtonText:   color.RGBA{0xf0, 0xea, 0xe0, 0xff},
	MenuText:     color.RGBA{0xf0, 0xea, 0xe0, 0xff},
	Accent:       color.RGBA{0xe0, 0x8a, 0x45, 0xff},
	ModalBg:      color.RGBA{0x00, 0x00, 0x00, 0xa0},
	Zone:         color.RGBA{0x2a, 0x2a, 0x2e, 0xff},
	ZoneHover:    color.RGBA{0x1f, 0x4e, 0x6b, 0xff},
	Correct:      color.RGBA{0x2e, 0x8b, 0x57, 0xff},
	Wrong:        color.RGBA{0xb0, 0x3a, 0x36, 0xff},
}
