package gdraw

import (
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"jigsaw/src/puzzlelib/remote"
	"jigsaw/ui/gui/gbase"
	"jigsaw/ui/gui/ghelper"
	"jigsaw/ui/gui/ghelper/gdialog"
)

type GUIMenuDrawer struct {
	tierButtons []*ghelper.Button
	tierNames   []string
	buttons     []*ghelper.Button

	idxPlay, idxOpen, idxGallery, idxBoard, idxTheme, idxExit int

	msg      *ghelper.MessageBox
	pointers pointerTracker
	prevTime time.Time
}

func NewGUIMenuDrawer(ctx *ghelper.GUIGameContext) *GUIMenuDrawer {
	md := &GUIMenuDrawer{
		msg:      ghelper.NewMessageBox(),
		prevTime: time.Now(),
	}
	tiers := ctx.Builder.Tiers()
	md.tierNames = tiers.Names()
	if _, err := tiers.Lookup(ctx.Request.Tier); err != nil && len(md.tierNames) > 0 {
		ctx.Request.Tier = md.tierNames[0]
		if _, err := tiers.Lookup("easy"); err == nil {
			ctx.Request.Tier = "easy"
		}
	}
	md.makeLayout(ctx)
	return md
}

func (md *GUIMenuDrawer) makeLayout(ctx *ghelper.GUIGameContext) {
	ww, wh := ctx.Config.WindowW, ctx.Config.WindowH

	// tier row
	md.tierButtons = nil
	tw, th, gap := 140, 48, 12
	n := len(md.tierNames)
	if n > 0 {
		tw = min(tw, (ww-2*gbase.Margin-(n-1)*gap)/n)
	}
	startX := (ww - (n*tw + (n-1)*gap)) / 2
	tiers := ctx.Builder.Tiers()
	for i, name := range md.tierNames {
		label := name
		if t, err := tiers.Lookup(name); err == nil {
			label = t.String()
		}
		b := ghelper.NewButton(label, startX+i*(tw+gap), wh/2-150, tw, th, ctx.Theme)
		md.tierButtons = append(md.tierButtons, b)
	}

	// action column
	md.buttons = nil
	btnW, btnH := 320, 46
	cx := ww / 2
	y := wh/2 - 60
	addBtn := func(label string) int {
		b := ghelper.NewButton(label, cx-btnW/2, y, btnW, btnH, ctx.Theme)
		y += btnH + 10
		md.buttons = append(md.buttons, b)
		return len(md.buttons) - 1
	}
	md.idxPlay = addBtn("Play")
	md.idxOpen = addBtn("Open picture...")
	md.idxGallery = addBtn("Puzzles")
	md.idxBoard = addBtn("Leaderboard")
	md.idxTheme = addBtn("Light / Dark")
	md.idxExit = addBtn("Exit")
}

func (md *GUIMenuDrawer) Update(ctx *ghelper.GUIGameContext) (SceneType, error) {
	now := time.Now()
	dt := now.Sub(md.prevTime).Seconds()
	md.prevTime = now

	mx, my, justPressed, justReleased := clicks(md.pointers.Poll())

	if md.msg.IsOverlayed() {
		md.msg.Update(mx, my, justReleased)
		return SceneNotChanged, nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		ctx.ToggleTheme()
		md.makeLayout(ctx)
		return SceneNotChanged, nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		ctx.ResetConfig()
		md.makeLayout(ctx)
		md.msg.ShowMessage("Settings reset", nil)
		return SceneNotChanged, nil
	}

	for i, b := range md.tierButtons {
		if b.HandleInput(mx, my, justPressed, justReleased) {
			ctx.Request.Tier = md.tierNames[i]
			ctx.Logx.Debugf("tier %s selected", ctx.Request.Tier)
		}
		b.UpdateAnim(dt)
	}

	for i, b := range md.buttons {
		clicked := b.HandleInput(mx, my, justPressed, justReleased)
		b.UpdateAnim(dt)
		if !clicked {
			continue
		}
		ctx.Logx.Infof("%s (%d) clicked", b.Label, i)
		switch i {
		case md.idxPlay:
			return ScenePlay, nil
		case md.idxOpen:
			md.openPicture(ctx)
		case md.idxGallery:
			return SceneGallery, nil
		case md.idxBoard:
			return SceneLeaderboard, nil
		case md.idxTheme:
			ctx.ToggleTheme()
			md.makeLayout(ctx)
		case md.idxExit:
			return SceneNotChanged, gbase.ErrExit
		}
	}
	return SceneNotChanged, nil
}

// openPicture blocks on the native dialog; the game loop is idle meanwhile.
func (md *GUIMenuDrawer) openPicture(ctx *ghelper.GUIGameContext) {
	res, err := gdialog.OpenImage("Choose a picture", filepath.Dir(ctx.Config.LastImage))
	if gdialog.Cancelled(err) {
		return
	}
	if err != nil {
		ctx.Logx.Errorf("error open picture: %v", err)
		md.msg.ShowMessage("Cannot open picture:\n"+err.Error(), nil)
		return
	}
	ctx.Request.Image = res.Path
	ctx.Request.PuzzleID = ""
	if cat, ok := ctx.Service.(remote.LocalCatalog); ok {
		ctx.Request.PuzzleID = cat.AddImage(res.Path).ID
	}
	ctx.Config.LastImage = res.Path
	if err := ctx.Config.Save(); err != nil {
		ctx.Logx.Warnf("error save config: %v", err)
	}
}

func (md *GUIMenuDrawer) Draw(ctx *ghelper.GUIGameContext, screen *ebiten.Image) {
	screen.Fill(ctx.Theme.Bg)
	fonts := ctx.AssetsWorker.Fonts()
	ww, wh := ctx.Config.WindowW, ctx.Config.WindowH

	title := "Jigsaw"
	b := text.BoundString(fonts.Bold, title)
	text.Draw(screen, title, fonts.Bold, (ww-b.Dx())/2, wh/2-200, ctx.Theme.MenuText)

	for i, btn := range md.tierButtons {
		btn.DrawAnimated(screen, fonts.Small, ctx.Theme)
		if md.tierNames[i] == ctx.Request.Tier {
			ghelper.EbitenutilDrawRectStroke(screen, float64(btn.X)-3, float64(btn.Y)-3, float64(btn.W)+6, float64(btn.H)+6, 3, ctx.Theme.Accent)
		}
	}
	for _, btn := range md.buttons {
		btn.DrawAnimated(screen, fonts.Normal, ctx.Theme)
	}

	picture := "Picture: placeholder pieces"
	switch {
	case ctx.Request.PuzzleID != "" && ctx.Request.PuzzleID != remote.LocalPuzzleID:
		picture = "Puzzle: " + ctx.Request.PuzzleID
	case ctx.Request.Image != "":
		picture = "Picture: " + filepath.Base(ctx.Request.Image)
	}
	pb := text.BoundString(fonts.Small, picture)
	text.Draw(screen, picture, fonts.Small, (ww-pb.Dx())/2, wh/2-80, ctx.Theme.MenuText)

	hint := "Tab: theme   F5: reset settings"
	if ctx.Config.Backend != "" {
		hint += "   Backend: " + ctx.Config.Backend
	}
	text.Draw(screen, hint, fonts.Small, gbase.Margin, wh-gbase.Margin, ctx.Theme.MenuText)

	md.msg.Draw(ctx, screen)
}
