package o2

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// drawStats prints FPS, TPS and scene counters in the top-left corner. Only
// drawn when Config.DebugDraw is set.
func (s *Scene) drawStats(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, s.statsText(ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (s *Scene) statsText(fps, tps float64) string {
	selected := 0
	for _, h := range s.handles {
		if sh, ok := h.(*SelectableDragHandle); ok && sh.IsSelected() {
			selected++
		}
	}
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nwidgets: %d\nhandles: %d (%d selected)",
		fps, tps, countWidgets(s.root), len(s.handles), selected)
}
