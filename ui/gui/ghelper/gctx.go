package ghelper

import (
	"jigsaw/src/logx"
	"jigsaw/src/puzzlelib"
	"jigsaw/src/puzzlelib/remote"
	"jigsaw/ui/gui/gbase"
	"jigsaw/ui/gui/gbase/gconf"
)

// --- GUI Game Request ---

// GUIGameRequest is what the menu hands to the play scene.
type GUIGameRequest struct {
	Tier     string
	PuzzleID string // backend puzzle, wins over Image
	Image    string // file path or URL
}

// ---- GUI Context ----

type GUIGameContext struct {
	Builder      *puzzlelib.GameBuilder
	Service      remote.Service
	AssetsWorker *GUIAssetsWorker
	Request      GUIGameRequest
	Config       *gconf.Config
	Theme        gbase.Palette
	Logx         logx.Logger
}

func NewGUIGameContext(b *puzzlelib.GameBuilder, svc remote.Service, a *GUIAssetsWorker, c *gconf.Config, l logx.Logger) *GUIGameContext {
	return &GUIGameContext{
		Builder:      b,
		Service:      svc,
		AssetsWorker: a,
		Request:      GUIGameRequest{Image: c.LastImage},
		Config:       c,
		Theme:        gbase.PaletteFromString(c.Theme),
		Logx:         l,
	}
}

// ToggleTheme switches light/dark and remembers the choice.
func (ctx *GUIGameContext) ToggleTheme() {
	if ctx.Theme == gbase.LightPalette {
		ctx.Theme = gbase.DarkPalette
	} else {
		ctx.Theme = gbase.LightPalette
	}
	ctx.Config.Theme = ctx.Theme.String()
	if err := ctx.Config.Save(); err != nil {
		ctx.Logx.Warnf("error save config: %v", err)
	}
}

// ResetConfig forgets saved settings and the remembered picture.
func (ctx *GUIGameContext) ResetConfig() {
	if err := ctx.Config.Reset(); err != nil {
		ctx.Logx.Warnf("error reset config: %v", err)
	}
	ctx.Theme = gbase.PaletteFromString(ctx.Config.Theme)
	ctx.Request.Image = ""
	if ctx.Request.PuzzleID == remote.LocalPuzzleID {
		ctx.Request.PuzzleID = ""
	}
}
