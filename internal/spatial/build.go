package spatial

import (
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
)

// Rebuild clears and refills the grid from the current entity positions,
// per §4.2 ("rebuilt from scratch each tick after integration"). Large
// bodies (radius at or above largeBodyThreshold) use radius insertion so range
// queries against them don't miss; everything else uses point insertion.
func Rebuild(grid *Grid, store *entity.Store, largeBodyThreshold float64) {
	grid.Reset()
	store.Each(func(e *entity.Entity) {
		if !e.IsAlive() {
			return
		}
		r := e.Shape.EffectiveRadius()
		if r >= largeBodyThreshold {
			grid.InsertRadius(e.ID, e.Pos, r)
		} else {
			grid.InsertPoint(e.ID, e.Pos)
		}
	})
}
