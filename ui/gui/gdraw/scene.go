package gdraw

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"jigsaw/ui/gui/ghelper"
)

// ---- Scene ----

type Scene interface {
	Update(ctx *ghelper.GUIGameContext) (SceneType, error)
	Draw(ctx *ghelper.GUIGameContext, screen *ebiten.Image)
}

type SceneType int

const (
	SceneMenu SceneType = iota
	ScenePlay
	SceneLeaderboard
	SceneGallery
	SceneNotChanged
)

func (t SceneType) ToScene(s Scene, ctx *ghelper.GUIGameContext) Scene {
	switch t {
	case SceneMenu:
		s = NewGUIMenuDrawer(ctx)
	case ScenePlay:
		s = NewGUIPlayDrawer(ctx)
	case SceneLeaderboard:
		s = NewGUILeaderboardDrawer(ctx)
	case SceneGallery:
		s = NewGUIGalleryDrawer(ctx)
	case SceneNotChanged:
	default:
	}
	return s
}

// ---- Scene Manager ----

type SceneManager struct {
	current Scene
}

func NewSceneManager(ctx *ghelper.GUIGameContext) *SceneManager {
	return &SceneManager{current: NewGUIMenuDrawer(ctx)}
}

func (sm *SceneManager) Update(ctx *ghelper.GUIGameContext) error {
	next, err := sm.current.Update(ctx)
	if err != nil {
		return err
	}
	sm.current = next.ToScene(sm.current, ctx)
	return nil
}

func (sm *SceneManager) Draw(ctx *ghelper.GUIGameContext, screen *ebiten.Image) {
	sm.current.Draw(ctx, screen)
	if ctx.Config.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f", ebiten.ActualTPS()))
	}
}
