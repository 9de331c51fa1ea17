package ghelper

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"jigsaw/src/puzzlelib/base"
	"jigsaw/ui/gui/ghelper/gfont"
)

type GUIAssetsWorker struct {
	fonts *gfont.Fonts
	tiles map[base.PieceID]*ebiten.Image
}

func NewGUIAssetsWorker() (*GUIAssetsWorker, error) {
	f, err := gfont.LoadFonts()
	if err != nil {
		return nil, err
	}
	return &GUIAssetsWorker{fonts: f, tiles: make(map[base.PieceID]*ebiten.Image)}, nil
}

func (aw *GUIAssetsWorker) Fonts() *gfont.Fonts {
	return aw.fonts
}

// Tile returns the GPU image of a piece, uploading it on first use.
func (aw *GUIAssetsWorker) Tile(p base.Piece) *ebiten.Image {
	if img, ok := aw.tiles[p.ID]; ok {
		return img
	}
	if p.Image == nil {
		return nil
	}
	img := ebiten.NewImageFromImage(p.Image)
	aw.tiles[p.ID] = img
	return img
}

// ResetTiles drops the uploaded pieces; call when a new picture is dealt.
func (aw *GUIAssetsWorker) ResetTiles() {
	for id, img := range aw.tiles {
		img.Deallocate()
		delete(aw.tiles, id)
	}
}

// TileSize is the natural size of the first piece, used to keep the board aspect.
func TileSize(pieces []base.Piece) image.Point {
	for _, p := range pieces {
		if p.Image != nil {
			return p.Image.Bounds().Size()
		}
	}
	return image.Point{}
}
