package gdraw

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"jigsaw/src/puzzlelib/remote"
	"jigsaw/src/puzzlelib/score"
	"jigsaw/ui/gui/gbase"
	"jigsaw/ui/gui/ghelper"
)

const (
	boardRows    = 15
	fetchTimeout = 10 * time.Second
)

type leaderboardResult struct {
	entries []remote.LeaderboardEntry
	err     error
}

// GUILeaderboardDrawer lists the best scores for the selected tier.
type GUILeaderboardDrawer struct {
	timeframes []remote.Timeframe
	selected   int

	tfButtons []*ghelper.Button
	back      *ghelper.Button

	fetching    bool
	fetchDoneCh chan leaderboardResult
	entries     []remote.LeaderboardEntry
	status      string

	pointers pointerTracker
	prevTime time.Time
}

func NewGUILeaderboardDrawer(ctx *ghelper.GUIGameContext) *GUILeaderboardDrawer {
	ld := &GUILeaderboardDrawer{
		timeframes:  []remote.Timeframe{remote.Daily, remote.Weekly, remote.Monthly, remote.AllTime},
		selected:    3,
		fetchDoneCh: make(chan leaderboardResult, 1),
		prevTime:    time.Now(),
	}
	ld.makeLayout(ctx)
	ld.fetch(ctx)
	return ld
}

func (ld *GUILeaderboardDrawer) makeLayout(ctx *ghelper.GUIGameContext) {
	w, h, gap := 120, 40, 10
	x := gbase.Margin
	y := gbase.HeaderH + 8
	ld.tfButtons = nil
	for _, tf := range ld.timeframes {
		ld.tfButtons = append(ld.tfButtons, ghelper.NewButton(string(tf), x, y, w, h, ctx.Theme))
		x += w + gap
	}
	ld.back = ghelper.NewButton("Back", ctx.Config.WindowW-gbase.Margin-w, (gbase.HeaderH-h)/2, w, h, ctx.Theme)
}

func (ld *GUILeaderboardDrawer) query(ctx *ghelper.GUIGameContext) remote.LeaderboardQuery {
	return remote.LeaderboardQuery{
		PuzzleID:   ctx.Request.PuzzleID,
		Difficulty: ctx.Request.Tier,
		Timeframe:  ld.timeframes[ld.selected],
		Limit:      boardRows,
	}
}

// fetch asks the service in the background; a result still in flight is dropped.
func (ld *GUILeaderboardDrawer) fetch(ctx *ghelper.GUIGameContext) {
	if ld.fetching {
		return
	}
	ld.fetching = true
	ld.status = "Loading..."
	q := ld.query(ctx)
	svc := ctx.Service
	go func() {
		fctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		entries, err := svc.FetchLeaderboard(fctx, q)
		ld.fetchDoneCh <- leaderboardResult{entries: entries, err: err}
	}()
}

func (ld *GUILeaderboardDrawer) Update(ctx *ghelper.GUIGameContext) (SceneType, error) {
	now := time.Now()
	dt := now.Sub(ld.prevTime).Seconds()
	ld.prevTime = now

	select {
	case res := <-ld.fetchDoneCh:
		ld.fetching = false
		ld.entries = res.entries
		switch {
		case res.err != nil:
			ctx.Logx.Warnf("error fetch leaderboard: %v", res.err)
			ld.status = "Leaderboard unavailable"
		case len(res.entries) == 0:
			ld.status = "No scores yet"
		default:
			ld.status = ""
		}
	default:
	}

	mx, my, justPressed, justReleased := clicks(ld.pointers.Poll())

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return SceneMenu, nil
	}
	if ld.back.HandleInput(mx, my, justPressed, justReleased) {
		return SceneMenu, nil
	}
	ld.back.UpdateAnim(dt)

	for i, b := range ld.tfButtons {
		b.Disabled = ld.fetching
		if b.HandleInput(mx, my, justPressed, justReleased) && i != ld.selected && !ld.fetching {
			ld.selected = i
			ld.fetch(ctx)
		}
		b.UpdateAnim(dt)
	}
	return SceneNotChanged, nil
}

func (ld *GUILeaderboardDrawer) Draw(ctx *ghelper.GUIGameContext, screen *ebiten.Image) {
	screen.Fill(ctx.Theme.Bg)
	fonts := ctx.AssetsWorker.Fonts()

	title := "Leaderboard: " + ctx.Request.Tier
	if ctx.Request.PuzzleID != "" {
		title += " / " + ctx.Request.PuzzleID
	}
	text.Draw(screen, title, fonts.Bold, gbase.Margin, gbase.HeaderH/2+8, ctx.Theme.MenuText)
	ld.back.DrawAnimated(screen, fonts.Normal, ctx.Theme)

	for i, b := range ld.tfButtons {
		b.DrawAnimated(screen, fonts.Small, ctx.Theme)
		if i == ld.selected {
			ghelper.EbitenutilDrawRectStroke(screen, float64(b.X)-2, float64(b.Y)-2, float64(b.W)+4, float64(b.H)+4, 2, ctx.Theme.Accent)
		}
	}

	y := gbase.HeaderH + 90
	text.Draw(screen, fmt.Sprintf("%-5s %-20s %8s %6s %7s", "#", "Player", "Time", "Moves", "Score"), fonts.Mono, gbase.Margin, y, ctx.Theme.MenuText)
	y += 8
	ghelper.EbitenutilDrawRect(screen, float64(gbase.Margin), float64(y), float64(ctx.Config.WindowW-2*gbase.Margin), 1, ctx.Theme.ButtonStroke)

	if ld.status != "" {
		text.Draw(screen, ld.status, fonts.Normal, gbase.Margin, y+32, ctx.Theme.MenuText)
		return
	}
	for _, e := range ld.entries {
		y += 28
		name := e.User.Username
		if name == "" {
			name = "anonymous"
		}
		if len(name) > 20 {
			name = name[:19] + "…"
		}
		col := ctx.Theme.ButtonText
		if name == ctx.Config.Player {
			col = ctx.Theme.Accent
		}
		line := fmt.Sprintf("%-5d %-20s %8s %6d %7d", e.Rank, name, score.FormatTime(e.ElapsedMs), e.Moves, e.Score)
		text.Draw(screen, line, fonts.Mono, gbase.Margin, y, col)
	}
}
