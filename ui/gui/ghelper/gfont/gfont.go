package gfont

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type Fonts struct {
	Mono   font.Face // clocks and counters
	Small  font.Face
	Normal font.Face
	Bold   font.Face
}

// LoadFonts builds the faces from the Go fonts bundled with x/image.
func LoadFonts() (*Fonts, error) {
	var err error
	fonts := &Fonts{}

	mono, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, err
	}
	fonts.Mono, err = newFace(mono, 18)
	if err != nil {
		return nil, err
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	fonts.Small, err = newFace(regular, 12)
	if err != nil {
		return nil, err
	}
	fonts.Normal, err = newFace(regular, 15)
	if err != nil {
		return nil, err
	}

	// for titles
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	fonts.Bold, err = newFace(bold, 22)
	if err != nil {
		return nil, err
	}

	return fonts, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
