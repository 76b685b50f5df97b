package o2

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrQuit can be returned from a Game's OnUpdate to end Run cleanly.
var ErrQuit = errors.New("o2: quit")

// Game adapts a Scene to ebiten.Game. Run builds one; embed or wrap it to
// add your own per-frame logic.
type Game struct {
	Scene      *Scene
	Background color.Color
	// OnUpdate runs after the scene update each tick.
	OnUpdate func(dt float64) error
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	g.Scene.Update(dt)
	if g.OnUpdate != nil {
		return g.OnUpdate(dt)
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.Background != nil {
		screen.Fill(g.Background)
	}
	g.Scene.Draw(screen)
}

// Layout implements ebiten.Game. The scene follows the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Scene.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Run opens a window configured by cfg and drives scene until the window
// closes or onUpdate returns an error. ErrQuit is not reported.
func Run(scene *Scene, cfg Config, onUpdate func(dt float64) error) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	scene.ApplyConfig(cfg)
	scene.polling = true

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	g := &Game{Scene: scene, Background: color.RGBA{R: 30, G: 30, B: 36, A: 255}, OnUpdate: onUpdate}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ErrQuit) {
		return fmt.Errorf("o2: run: %w", err)
	}
	return nil
}
