package engine

import (
	"tabletop-backend/internal/geom"
	"tabletop-backend/internal/grid"
	"tabletop-backend/internal/model"
)

// DragEnd finishes an ordinary single-object drag: the object lands on
// a pile, a deck (cards only), or the bare table with grid snapping
// applied. The actor must hold manipulation rights; a denied drag is a
// silent no-op and the next authoritative snapshot reconciles the view.
func DragEnd(st *State, actor Actor, id string, screen geom.Vec, cam geom.Camera) {
	obj, ok := st.Get(id)
	if !ok || !st.CanManipulate(actor, obj) {
		return
	}
	world := cam.ToWorld(screen)

	if obj.Kind == model.KindCard {
		target := geom.ResolveDropTarget(world, st.OnTable(), geom.HitOptions{
			ExcludeID:  id,
			Privileged: actor.Privileged,
		})
		switch target.Kind {
		case geom.DropPile:
			if card, ok := st.Detach(id); ok {
				if st.InsertPileTop(target.DeckID, target.PileID, card) != nil {
					st.PlaceOnTable(card, world.X-card.Width/2, world.Y-card.Height/2)
				}
			}
			return
		case geom.DropDeck:
			if card, ok := st.Detach(id); ok {
				if st.InsertDeckTop(target.DeckID, card) != nil {
					st.PlaceOnTable(card, world.X-card.Width/2, world.Y-card.Height/2)
				}
			}
			return
		}
	}

	center := grid.Snap(world, st.OnTable(), id)
	obj.X = center.X - obj.Width/2
	obj.Y = center.Y - obj.Height/2
	st.BringToFront(id)
}

// DragMove updates the dragged object's position as the pointer moves.
// No snapping happens mid-drag; snapping resolves on drop.
func DragMove(st *State, actor Actor, id string, screen geom.Vec, cam geom.Camera) {
	obj, ok := st.Get(id)
	if !ok || !st.CanManipulate(actor, obj) {
		return
	}
	world := cam.ToWorld(screen)
	obj.X = world.X - obj.Width/2
	obj.Y = world.Y - obj.Height/2
}
