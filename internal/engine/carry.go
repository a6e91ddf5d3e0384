package engine

import (
	"tabletop-backend/internal/geom"
	"tabletop-backend/internal/input"
	"tabletop-backend/internal/model"
)

// carryStackFactor sets the per-entry render offset as a fraction of the
// entry's smallest dimension.
const carryStackFactor = 0.1

// Slot is the bounded staging buffer holding objects lifted off the
// surface pending a single drop. Insertion order is preserved; the
// first-inserted entry renders as the back-most layer.
type Slot struct {
	capacity int
	entries  []slotEntry
	anchor   geom.Vec
	source   input.CarrySource // source of the gesture that armed the slot
}

type slotEntry struct {
	object *model.TableObject
	source input.CarrySource
}

// NewSlot returns an empty slot with the given capacity.
func NewSlot(capacity int) *Slot {
	return &Slot{capacity: capacity}
}

// Len returns the number of staged entries.
func (s *Slot) Len() int {
	return len(s.entries)
}

// Anchor returns the current pointer anchor in screen coordinates.
func (s *Slot) Anchor() geom.Vec {
	return s.anchor
}

// DropOnRelease reports whether the active carry drops on pointer
// release (hold source) rather than on the next primary click
// (modifier source). The asymmetry is deliberate and must not be
// unified.
func (s *Slot) DropOnRelease() bool {
	return s.source == input.SourceHold
}

// Pickup lifts an object off the surface into the slot. A pickup past
// capacity is a silent no-op and leaves the object in its container.
// The staged entry is an immutable snapshot that fully reconstructs the
// object on drop.
func (s *Slot) Pickup(st *State, id string, src input.CarrySource, anchor geom.Vec) bool {
	if len(s.entries) >= s.capacity {
		return false
	}
	obj, ok := st.Detach(id)
	if !ok {
		return false
	}
	if len(s.entries) == 0 {
		s.source = src
	}
	s.entries = append(s.entries, slotEntry{object: obj.Clone(), source: src})
	s.anchor = anchor
	return true
}

// Follow moves the render anchor with the pointer.
func (s *Slot) Follow(p geom.Vec) {
	s.anchor = p
}

// RenderOffsets returns the per-entry screen offset from the anchor,
// in insertion order. The oldest entry is the most offset so it draws
// visually behind the rest.
func (s *Slot) RenderOffsets() []geom.Vec {
	out := make([]geom.Vec, len(s.entries))
	for i, e := range s.entries {
		d := carryStackOffset(e.object) * float64(len(s.entries)-1-i)
		out[i] = geom.Vec{X: d, Y: d}
	}
	return out
}

// Drop resolves a drop target at the screen point and reinserts every
// staged entry, then clears the slot atomically. A drop with zero
// entries is a no-op.
//
// Deck and pile targets take cards only, reinserted at the top in slot
// order so the most recently picked up card ends as the new top card.
// Non-card entries, and all entries over the bare table, are placed at
// the drop point with the same stacking offsets used for rendering.
func (s *Slot) Drop(st *State, screen geom.Vec, cam geom.Camera, actor Actor) {
	if len(s.entries) == 0 {
		return
	}
	world := cam.ToWorld(screen)
	target := geom.ResolveDropTarget(world, st.OnTable(), geom.HitOptions{Privileged: actor.Privileged})

	offsets := s.RenderOffsets()
	for i, e := range s.entries {
		obj := e.object
		placed := false
		if obj.Kind == model.KindCard {
			switch target.Kind {
			case geom.DropPile:
				placed = st.InsertPileTop(target.DeckID, target.PileID, obj) == nil
			case geom.DropDeck:
				placed = st.InsertDeckTop(target.DeckID, obj) == nil
			}
		}
		if !placed {
			d := cam.DeltaToWorld(offsets[i])
			st.PlaceOnTable(obj, world.X+d.X-obj.Width/2, world.Y+d.Y-obj.Height/2)
		}
	}

	s.entries = nil
	s.source = ""
}

func carryStackOffset(o *model.TableObject) float64 {
	min := o.Width
	if o.Height < min {
		min = o.Height
	}
	return carryStackFactor * min
}
