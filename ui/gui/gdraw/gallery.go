package gdraw

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/remote"
	"jigsaw/ui/gui/gbase"
	"jigsaw/ui/gui/gbase/glayout"
	"jigsaw/ui/gui/ghelper"
)

const galleryRows = 8

type galleryResult struct {
	puzzles []base.Puzzle
	err     error
}

// GUIGalleryDrawer lists the puzzle catalogue, filtered by category and paged.
type GUIGalleryDrawer struct {
	categories []string // "" is all
	selected   int
	page       int

	catButtons []*ghelper.Button
	rowButtons []*ghelper.Button
	back       *ghelper.Button
	prev, next *ghelper.Button

	fetching    bool
	fetchDoneCh chan galleryResult
	puzzles     []base.Puzzle
	status      string

	pointers pointerTracker
	prevTime time.Time
}

func NewGUIGalleryDrawer(ctx *ghelper.GUIGameContext) *GUIGalleryDrawer {
	gd := &GUIGalleryDrawer{
		categories:  []string{""},
		fetchDoneCh: make(chan galleryResult, 1),
		prevTime:    time.Now(),
	}
	gd.makeLayout(ctx)
	gd.fetch(ctx)
	return gd
}

func (gd *GUIGalleryDrawer) makeLayout(ctx *ghelper.GUIGameContext) {
	ww := ctx.Config.WindowW
	w, h, gap := 120, 36, 10

	gd.catButtons = nil
	x := gbase.Margin
	for _, c := range gd.categories {
		label := c
		if label == "" {
			label = "All"
		}
		gd.catButtons = append(gd.catButtons, ghelper.NewButton(label, x, gbase.HeaderH+8, w, h, ctx.Theme))
		x += w + gap
	}

	gd.rowButtons = nil
	rowW, rowH := ww-2*gbase.Margin, 44
	y := gbase.HeaderH + 64
	for i := 0; i < galleryRows; i++ {
		gd.rowButtons = append(gd.rowButtons, ghelper.NewButton("", gbase.Margin, y, rowW, rowH, ctx.Theme))
		y += rowH + 8
	}
	gd.prev = ghelper.NewButton("<", gbase.Margin, y+8, 60, h, ctx.Theme)
	gd.next = ghelper.NewButton(">", ww-gbase.Margin-60, y+8, 60, h, ctx.Theme)
	gd.back = ghelper.NewButton("Back", ww-gbase.Margin-w, (gbase.HeaderH-h)/2, w, h, ctx.Theme)
}

// fetch loads the selected category in the background.
func (gd *GUIGalleryDrawer) fetch(ctx *ghelper.GUIGameContext) {
	if gd.fetching {
		return
	}
	gd.fetching = true
	gd.status = "Loading..."
	f := remote.PuzzleFilter{Category: gd.categories[gd.selected]}
	svc := ctx.Service
	go func() {
		fctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		ps, err := svc.FetchPuzzles(fctx, f)
		gd.fetchDoneCh <- galleryResult{puzzles: ps, err: err}
	}()
}

func (gd *GUIGalleryDrawer) onFetched(ctx *ghelper.GUIGameContext, res galleryResult) {
	gd.fetching = false
	gd.puzzles = res.puzzles
	gd.page = 0
	switch {
	case res.err != nil:
		ctx.Logx.Warnf("error fetch puzzles: %v", res.err)
		gd.status = "Catalogue unavailable"
	case len(res.puzzles) == 0:
		gd.status = "No puzzles"
	default:
		gd.status = ""
	}
	// categories come from the unfiltered list
	if gd.selected == 0 && res.err == nil {
		gd.categories = append([]string{""}, remote.Categories(res.puzzles)...)
		gd.makeLayout(ctx)
	}
}

func (gd *GUIGalleryDrawer) Update(ctx *ghelper.GUIGameContext) (SceneType, error) {
	now := time.Now()
	dt := now.Sub(gd.prevTime).Seconds()
	gd.prevTime = now

	select {
	case res := <-gd.fetchDoneCh:
		gd.onFetched(ctx, res)
	default:
	}

	mx, my, justPressed, justReleased := clicks(gd.pointers.Poll())
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return SceneMenu, nil
	}
	if gd.back.HandleInput(mx, my, justPressed, justReleased) {
		return SceneMenu, nil
	}
	gd.back.UpdateAnim(dt)

	for i, b := range gd.catButtons {
		b.Disabled = gd.fetching
		if b.HandleInput(mx, my, justPressed, justReleased) && i != gd.selected && !gd.fetching {
			gd.selected = i
			gd.fetch(ctx)
		}
		b.UpdateAnim(dt)
	}

	start, end, pages, page := glayout.Page(len(gd.puzzles), galleryRows, gd.page)
	gd.page = page
	gd.prev.Disabled = page == 0
	gd.next.Disabled = page >= pages-1
	if gd.prev.HandleInput(mx, my, justPressed, justReleased) && !gd.prev.Disabled {
		gd.page--
	}
	if gd.next.HandleInput(mx, my, justPressed, justReleased) && !gd.next.Disabled {
		gd.page++
	}
	gd.prev.UpdateAnim(dt)
	gd.next.UpdateAnim(dt)

	for i, b := range gd.rowButtons[:end-start] {
		p := gd.puzzles[start+i]
		b.Label = rowLabel(p)
		if b.HandleInput(mx, my, justPressed, justReleased) {
			choosePuzzle(ctx, p)
			return SceneMenu, nil
		}
		b.UpdateAnim(dt)
	}
	return SceneNotChanged, nil
}

func rowLabel(p base.Puzzle) string {
	label := p.Title
	if label == "" {
		label = p.ID
	}
	if p.Category != "" {
		label += "  [" + p.Category + "]"
	}
	if p.Featured {
		label = "* " + label
	}
	return label
}

// choosePuzzle makes p the next game, keeping the tier when p offers it.
func choosePuzzle(ctx *ghelper.GUIGameContext, p base.Puzzle) {
	ctx.Request.PuzzleID = p.ID
	ctx.Request.Image = ""
	if p.ID == remote.LocalPuzzleID {
		ctx.Request.Image = p.ImageURL
	}
	if !p.Supports(ctx.Request.Tier) {
		for _, d := range p.Difficulties {
			if _, err := ctx.Builder.Tiers().Lookup(d); err == nil {
				ctx.Request.Tier = d
				break
			}
		}
	}
	ctx.Logx.Infof("puzzle %s chosen (%s)", p.ID, ctx.Request.Tier)
}

func (gd *GUIGalleryDrawer) Draw(ctx *ghelper.GUIGameContext, screen *ebiten.Image) {
	screen.Fill(ctx.Theme.Bg)
	fonts := ctx.AssetsWorker.Fonts()

	text.Draw(screen, "Puzzles", fonts.Bold, gbase.Margin, gbase.HeaderH/2+8, ctx.Theme.MenuText)
	gd.back.DrawAnimated(screen, fonts.Normal, ctx.Theme)

	for i, b := range gd.catButtons {
		b.DrawAnimated(screen, fonts.Small, ctx.Theme)
		if i == gd.selected {
			ghelper.EbitenutilDrawRectStroke(screen, float64(b.X)-2, float64(b.Y)-2, float64(b.W)+4, float64(b.H)+4, 2, ctx.Theme.Accent)
		}
	}

	if gd.status != "" {
		text.Draw(screen, gd.status, fonts.Normal, gbase.Margin, gbase.HeaderH+100, ctx.Theme.MenuText)
		return
	}

	start, end, pages, page := glayout.Page(len(gd.puzzles), galleryRows, gd.page)
	for i, b := range gd.rowButtons[:end-start] {
		b.DrawAnimated(screen, fonts.Normal, ctx.Theme)
		if gd.puzzles[start+i].ID == ctx.Request.PuzzleID {
			ghelper.EbitenutilDrawRectStroke(screen, float64(b.X)-2, float64(b.Y)-2, float64(b.W)+4, float64(b.H)+4, 2, ctx.Theme.Accent)
		}
	}
	if pages > 1 {
		gd.prev.DrawAnimated(screen, fonts.Normal, ctx.Theme)
		gd.next.DrawAnimated(screen, fonts.Normal, ctx.Theme)
		label := fmt.Sprintf("%d / %d", page+1, pages)
		b := text.BoundString(fonts.Small, label)
		text.Draw(screen, label, fonts.Small, (ctx.Config.WindowW-b.Dx())/2, gd.prev.Y+gd.prev.H/2+5, ctx.Theme.MenuText)
	}
	if ctx.Request.PuzzleID != "" {
		hint := "Current: " + ctx.Request.PuzzleID
		text.Draw(screen, hint, fonts.Small, gbase.Margin, ctx.Config.WindowH-gbase.Margin, ctx.Theme.MenuText)
	}
}
