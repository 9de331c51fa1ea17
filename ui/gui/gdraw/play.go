package gdraw

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/drag"
	"jigsaw/src/puzzlelib/score"
	"jigsaw/src/puzzlelib/slicer"
	"jigsaw/ui/gui/gbase"
	"jigsaw/ui/gui/gbase/glayout"
	"jigsaw/ui/gui/ghelper"
	"jigsaw/ui/gui/ghelper/gclipboard"
)

const loadTimeout = 30 * time.Second

// GUIPlayDrawer is the board scene: grid of drop zones on the left, tray of
// unplaced pieces on the right, header with timer and counters.
type GUIPlayDrawer struct {
	// layout
	board drag.GridLayout
	tray  glayout.Tray
	frame *ebiten.Image

	// loading runs on a goroutine and reports here
	loading    bool
	loadDoneCh chan error
	loadedFor  float64

	// buttons
	buttons    []*ghelper.Button
	idxRestart int
	idxCopy    int
	idxMenu    int

	msg          *ghelper.MessageBox
	backToMenu   bool
	victoryShown bool

	pointers pointerTracker
	lastTick time.Time
}

func NewGUIPlayDrawer(ctx *ghelper.GUIGameContext) *GUIPlayDrawer {
	pd := &GUIPlayDrawer{
		loading:    true,
		loadDoneCh: make(chan error, 1),
		msg:        ghelper.NewMessageBox(),
		lastTick:   time.Now(),
	}
	pd.makeLayoutButtons(ctx)
	ctx.Builder.Drag().Reset()

	req := ctx.Request
	go func() {
		lctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		pd.loadDoneCh <- startGame(lctx, ctx, req)
	}()
	return pd
}

// startGame deals a new session for req; safe off the UI goroutine since
// the builder serialises itself.
func startGame(c context.Context, ctx *ghelper.GUIGameContext, req ghelper.GUIGameRequest) error {
	gb := ctx.Builder
	var err error
	switch {
	case req.PuzzleID != "":
		_, err = gb.CreateFromPuzzle(c, ctx.Service, req.PuzzleID, req.Tier)
	case req.Image != "":
		_, err = gb.CreateFromSource(c, req.Tier, req.Image)
	default:
		tier, lerr := gb.Tiers().Lookup(req.Tier)
		if lerr != nil {
			return lerr
		}
		_, err = gb.CreateFromTiles(tier.Name, slicer.Placeholders(tier.Rows, tier.Cols, slicer.PlaceholderSize))
	}
	return err
}

func (pd *GUIPlayDrawer) makeLayoutButtons(ctx *ghelper.GUIGameContext) {
	pd.buttons = []*ghelper.Button{}
	w, h, gap := 110, 40, 12
	x := ctx.Config.WindowW - gbase.Margin - 3*w - 2*gap
	y := (gbase.HeaderH - h) / 2

	addBtn := func(label string) int {
		b := ghelper.NewButton(label, x, y, w, h, ctx.Theme)
		x += w + gap
		pd.buttons = append(pd.buttons, b)
		return len(pd.buttons) - 1
	}
	pd.idxRestart = addBtn("Restart")
	pd.idxCopy = addBtn("Copy")
	pd.idxMenu = addBtn("Menu")
}

// recalcLayout fits board and tray to the window and the dealt tiles.
func (pd *GUIPlayDrawer) recalcLayout(ctx *ghelper.GUIGameContext) {
	ww, wh := ctx.Config.WindowW, ctx.Config.WindowH
	tier := ctx.Builder.Tier()
	pieces := ctx.Builder.Pieces()

	boardArea := image.Rect(gbase.Margin, gbase.HeaderH, ww-gbase.TrayW-2*gbase.Margin, wh-gbase.Margin)
	trayArea := image.Rect(ww-gbase.TrayW-gbase.Margin, gbase.HeaderH, ww-gbase.Margin, wh-gbase.Margin)

	pd.board = glayout.Board(boardArea, tier.Rows, tier.Cols, ghelper.TileSize(pieces))
	pd.tray = glayout.NewTray(trayArea, len(pieces))
	ctx.Builder.Drag().SetResolver(pd.board)

	if pd.frame != nil {
		pd.frame.Deallocate()
		pd.frame = nil
	}
	if bw, bh := int(pd.board.Width()), int(pd.board.Height()); bw > 0 && bh > 0 {
		pd.frame = ghelper.RenderRoundedRect(bw+8, bh+8, 6, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 2)
	}
}

func (pd *GUIPlayDrawer) onLoaded(ctx *ghelper.GUIGameContext, err error) {
	pd.loading = false
	if err != nil {
		ctx.Logx.Errorf("error start game: %v", err)
		pd.msg.ShowMessage("Cannot start the puzzle:\n"+err.Error(), func() { pd.backToMenu = true })
		return
	}
	ctx.AssetsWorker.ResetTiles()
	pd.recalcLayout(ctx)
	ctx.Logx.Infof("game ready: %s, %d pieces", ctx.Builder.Tier().Name, len(ctx.Builder.Pieces()))
}

// Update
func (pd *GUIPlayDrawer) Update(ctx *ghelper.GUIGameContext) (SceneType, error) {
	now := time.Now()
	dt := now.Sub(pd.lastTick).Seconds()
	pd.lastTick = now

	select {
	case err := <-pd.loadDoneCh:
		pd.onLoaded(ctx, err)
	default:
	}

	events := pd.pointers.Poll()
	mx, my, justPressed, justReleased := clicks(events)

	if pd.msg.IsOverlayed() {
		pd.msg.Update(mx, my, justReleased)
		return SceneNotChanged, nil
	}
	if pd.backToMenu {
		return SceneMenu, nil
	}
	if pd.loading {
		pd.loadedFor += dt
		return SceneNotChanged, nil
	}

	gb := ctx.Builder
	gb.Tick()
	dragging := gb.Drag().Dragging()

	pd.buttons[pd.idxCopy].Disabled = !gb.Complete()
	for i, b := range pd.buttons {
		clicked := b.HandleInput(mx, my, justPressed && !dragging, justReleased)
		b.UpdateAnim(dt)
		if !clicked {
			continue
		}
		switch i {
		case pd.idxRestart:
			if err := gb.RestartGame(); err != nil {
				ctx.Logx.Errorf("error restart: %v", err)
			}
			pd.victoryShown = false
		case pd.idxCopy:
			pd.copyResult(ctx)
		case pd.idxMenu:
			gb.Drag().Reset()
			return SceneMenu, nil
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if s, ok := gb.Drag().Session(); ok {
			gb.Drag().PointerCancel(s.PointerID)
		}
	}
	// right click sends a placed piece back to the tray
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && !gb.Drag().Dragging() {
		if pos, ok := pd.board.DropZoneAt(base.Point{X: float64(mx), Y: float64(my)}); ok {
			if p, ok := gb.PieceAt(pos); ok {
				gb.RemovePiece(p.ID)
			}
		}
	}

	for _, e := range events {
		pd.handlePointer(ctx, e)
	}

	if gb.Complete() && !pd.victoryShown {
		pd.victoryShown = true
		pd.showVictory(ctx)
	}
	return SceneNotChanged, nil
}

func (pd *GUIPlayDrawer) handlePointer(ctx *ghelper.GUIGameContext, e pointerEvent) {
	gb := ctx.Builder
	ctrl := gb.Drag()
	switch e.kind {
	case pointerDown:
		if gb.Complete() {
			return
		}
		if pos, ok := pd.board.DropZoneAt(e.at); ok {
			if p, ok := gb.PieceAt(pos); ok {
				ctrl.PointerDown(e.id, p, e.at, pd.board.CellOrigin(pos))
			}
			return
		}
		tray := gb.Tray()
		if i, ok := pd.tray.SlotAt(e.at, len(tray)); ok {
			ctrl.PointerDown(e.id, tray[i], e.at, pd.tray.SlotOrigin(i))
		}
	case pointerMove:
		ctrl.PointerMove(e.id, e.at)
	case pointerUp:
		if out := ctrl.PointerUp(e.id, e.at); out != drag.Ignored {
			ctx.Logx.Debugf("drop at (%.0f, %.0f): %s", e.at.X, e.at.Y, out)
		}
	}
}

func (pd *GUIPlayDrawer) showVictory(ctx *ghelper.GUIGameContext) {
	res, ok := ctx.Builder.Result()
	if !ok {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Puzzle solved!\n")
	fmt.Fprintf(&sb, "Time: %s    Moves: %d\n", score.FormatTime(res.ElapsedMs), res.Moves)
	fmt.Fprintf(&sb, "Score: %d", res.Score)
	for _, id := range res.Achievements {
		if a, ok := score.Lookup(id); ok {
			fmt.Fprintf(&sb, "\n%s (+%d)", a.Name, a.Points)
		}
	}
	pd.msg.ShowMessage(sb.String(), nil)
}

func (pd *GUIPlayDrawer) copyResult(ctx *ghelper.GUIGameContext) {
	res, ok := ctx.Builder.Result()
	if !ok {
		return
	}
	if !gclipboard.Supported() {
		pd.msg.ShowMessage("Clipboard is not available", nil)
		return
	}
	if err := gclipboard.WriteAll(res.String()); err != nil {
		ctx.Logx.Warnf("error copy result: %v", err)
		pd.msg.ShowMessage("Cannot copy:\n"+err.Error(), nil)
	}
}

// Draw
func (pd *GUIPlayDrawer) Draw(ctx *ghelper.GUIGameContext, screen *ebiten.Image) {
	screen.Fill(ctx.Theme.Bg)
	fonts := ctx.AssetsWorker.Fonts()

	if pd.loading {
		dots := strings.Repeat(".", int(pd.loadedFor*3)%4)
		text.Draw(screen, "Loading puzzle"+dots, fonts.Bold, gbase.Margin, gbase.HeaderH, ctx.Theme.MenuText)
		pd.msg.Draw(ctx, screen)
		return
	}

	gb := ctx.Builder
	session, dragging := gb.Drag().Session()
	pd.drawHeader(ctx, screen)

	if pd.frame != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(pd.board.X-4, pd.board.Y-4)
		screen.DrawImage(pd.frame, op)
	}

	// drop zones and placed pieces
	total := pd.board.Rows * pd.board.Cols
	for pos := 0; pos < total; pos++ {
		o := pd.board.CellOrigin(pos)
		p, occupied := gb.PieceAt(pos)
		if occupied && !(dragging && session.PieceID == p.ID) {
			pd.drawTile(ctx, screen, p, o.X, o.Y, pd.board.CellW, pd.board.CellH, 1)
			continue
		}
		col := ctx.Theme.Zone
		if dragging && session.Hovered == pos && !occupied {
			col = ctx.Theme.ZoneHover
		}
		ghelper.EbitenutilDrawRect(screen, o.X+1, o.Y+1, pd.board.CellW-2, pd.board.CellH-2, col)
	}
	if gb.Complete() {
		ghelper.EbitenutilDrawRectStroke(screen, pd.board.X-4, pd.board.Y-4, pd.board.Width()+8, pd.board.Height()+8, 4, ctx.Theme.Correct)
	}

	// tray
	tray := gb.Tray()
	thumb := float64(pd.tray.Thumb)
	for i, p := range tray {
		if dragging && session.PieceID == p.ID {
			continue
		}
		o := pd.tray.SlotOrigin(i)
		pd.drawTile(ctx, screen, p, o.X, o.Y, thumb, thumb, 1)
	}
	if len(tray) == 0 && !gb.Complete() {
		text.Draw(screen, "Tray empty", fonts.Small, pd.tray.Area.Min.X, pd.tray.Area.Min.Y+16, ctx.Theme.MenuText)
	}

	// ghost on top of everything
	if dragging {
		if p, ok := gb.Piece(session.PieceID); ok {
			pd.drawTile(ctx, screen, p, session.Ghost.X, session.Ghost.Y, pd.board.CellW, pd.board.CellH, 0.85)
			ghelper.EbitenutilDrawRectStroke(screen, session.Ghost.X, session.Ghost.Y, pd.board.CellW, pd.board.CellH, 2, ctx.Theme.Accent)
		}
	}

	for _, b := range pd.buttons {
		b.DrawAnimated(screen, fonts.Normal, ctx.Theme)
	}
	pd.msg.Draw(ctx, screen)
}

func (pd *GUIPlayDrawer) drawHeader(ctx *ghelper.GUIGameContext, screen *ebiten.Image) {
	gb := ctx.Builder
	fonts := ctx.AssetsWorker.Fonts()
	baseY := gbase.HeaderH/2 + 6

	text.Draw(screen, gb.Tier().String(), fonts.Bold, gbase.Margin, baseY, ctx.Theme.MenuText)

	placed, _, total := gb.Progress()
	stats := fmt.Sprintf("%s   Moves %d   %d/%d", score.FormatTime(gb.Elapsed()), gb.Moves(), placed, total)
	if info, ok := gb.Rank(); ok && info.Rank > 0 {
		stats += fmt.Sprintf("   Rank #%d", info.Rank)
	}
	text.Draw(screen, stats, fonts.Mono, gbase.Margin+240, baseY, ctx.Theme.ButtonText)
}

// drawTile scales the piece into w×h keeping its aspect.
func (pd *GUIPlayDrawer) drawTile(ctx *ghelper.GUIGameContext, screen *ebiten.Image, p base.Piece, x, y, w, h, alpha float64) {
	img := ctx.AssetsWorker.Tile(p)
	if img == nil {
		ghelper.EbitenutilDrawRect(screen, x, y, w, h, ctx.Theme.ButtonStroke)
		return
	}
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	s := ghelper.FitScale(iw, ih, int(w), int(h))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x+(w-float64(iw)*s)/2, y+(h-float64(ih)*s)/2)
	op.Filter = ebiten.FilterLinear
	if alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(alpha))
	}
	screen.DrawImage(img, op)
}
