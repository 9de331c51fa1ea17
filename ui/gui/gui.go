package gui

import (
	"context"

	"jigsaw/src/logx"
	"jigsaw/src/puzzlelib"
	"jigsaw/src/puzzlelib/remote"
	"jigsaw/ui/gui/gbase/gconf"
	"jigsaw/ui/gui/gdraw"
	"jigsaw/ui/gui/ghelper"

	"github.com/hajimehoshi/ebiten/v2"
)

type GUIProcessing struct {
	mgr *gdraw.SceneManager
	ctx *ghelper.GUIGameContext
}

func NewGUI(b *puzzlelib.GameBuilder, svc remote.Service, conf *gconf.Config, logx logx.Logger) (*GUIProcessing, error) {
	assets, err := ghelper.NewGUIAssetsWorker()
	if err != nil {
		return nil, err
	}
	ctx := ghelper.NewGUIGameContext(b, svc, assets, conf, logx)
	selectPicture(ctx, svc, conf)

	return &GUIProcessing{
		mgr: gdraw.NewSceneManager(ctx),
		ctx: ctx,
	}, nil
}

// selectPicture fills the first request: a configured backend puzzle, else
// the local picture so offline scores still rank.
func selectPicture(ctx *ghelper.GUIGameContext, svc remote.Service, conf *gconf.Config) {
	if conf.Puzzle != "" {
		ctx.Request.PuzzleID = conf.Puzzle
		ctx.Request.Image = ""
		return
	}
	if p, ok := remote.LocalPuzzle(context.Background(), svc, ctx.Request.Image); ok {
		ctx.Request.PuzzleID = p.ID
		ctx.Request.Image = p.ImageURL
	}
}

func (gp *GUIProcessing) Run() error {
	ebiten.SetWindowSize(gp.ctx.Config.WindowW, gp.ctx.Config.WindowH)
	ebiten.SetWindowTitle("Jigsaw")
	return ebiten.RunGame(gp)
}

func (gp *GUIProcessing) Update() error {
	return gp.mgr.Update(gp.ctx)
}

func (gp *GUIProcessing) Draw(screen *ebiten.Image) {
	gp.mgr.Draw(gp.ctx, screen)
}

func (gp *GUIProcessing) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return gp.ctx.Config.WindowW, gp.ctx.Config.WindowH
}
