package geom

import (
	"math"
	"sort"

	"tabletop-backend/internal/model"
)

// HitOptions narrows a hit test.
type HitOptions struct {
	ExcludeID  string // dragged object, skipped entirely
	Privileged bool   // privileged viewers also hit invisible objects
}

// DropTargetKind is the resolved destination class of a drop.
type DropTargetKind string

const (
	DropPile     DropTargetKind = "PILE"
	DropDeck     DropTargetKind = "DECK"
	DropTabletop DropTargetKind = "TABLETOP"
)

// DropTarget is the resolved destination of a card drag or carry drop.
// It is computed on demand, never stored.
type DropTarget struct {
	Kind   DropTargetKind
	DeckID string
	PileID string
}

// PointInObject reports whether a world point lies inside the object's
// rotated bounding box. The point is translated into the object's local
// un-rotated frame by rotating it by -rotation around the center, then
// compared against the half extents.
func PointInObject(p Vec, o *model.TableObject) bool {
	cx, cy := o.CenterX(), o.CenterY()
	dx, dy := p.X-cx, p.Y-cy

	if o.Rotation != 0 {
		rad := -o.Rotation * math.Pi / 180
		sin, cos := math.Sincos(rad)
		dx, dy = dx*cos-dy*sin, dx*sin+dy*cos
	}

	return math.Abs(dx) <= o.Width/2 && math.Abs(dy) <= o.Height/2
}

// HitTest returns the id of the topmost object containing the world
// point, or "" when the point is over nothing. Candidates are walked in
// descending z-order; on equal z, boards lose to every other kind and
// locked objects lose to unlocked ones.
func HitTest(p Vec, objects []*model.TableObject, opts HitOptions) string {
	candidates := hitCandidates(objects, opts)
	for _, o := range candidates {
		if PointInObject(p, o) {
			return o.ID
		}
	}
	return ""
}

// ResolveDropTarget resolves where a dragged card or carry-slot load
// lands. Piles are tested before their owning decks regardless of
// z-index: piles are narrow strips abutting the broader deck region and
// must win when both contain the point. Anything else is the bare table.
func ResolveDropTarget(p Vec, objects []*model.TableObject, opts HitOptions) DropTarget {
	decks := make([]*model.TableObject, 0)
	for _, o := range objects {
		if o.Kind == model.KindDeck && o.OnTable() && o.ID != opts.ExcludeID {
			if !o.IsVisible() && !opts.Privileged {
				continue
			}
			decks = append(decks, o)
		}
	}
	sort.SliceStable(decks, func(i, j int) bool {
		return decks[i].ZIndex > decks[j].ZIndex
	})

	// First pass: piles of every deck.
	for _, d := range decks {
		for _, pile := range d.Piles {
			if !pile.IsVisible() && !opts.Privileged {
				continue
			}
			if pointInPile(p, d, pile) {
				return DropTarget{Kind: DropPile, DeckID: d.ID, PileID: pile.ID}
			}
		}
	}

	// Second pass: deck bodies.
	for _, d := range decks {
		if PointInObject(p, d) {
			return DropTarget{Kind: DropDeck, DeckID: d.ID}
		}
	}

	return DropTarget{Kind: DropTabletop}
}

// pointInPile tests the pile's rectangle, positioned relative to its deck.
// Piles do not rotate independently of the deck.
func pointInPile(p Vec, deck *model.TableObject, pile *model.Pile) bool {
	rect := model.TableObject{
		X:        deck.X + pile.OffsetX,
		Y:        deck.Y + pile.OffsetY,
		Width:    pile.Width,
		Height:   pile.Height,
		Rotation: deck.Rotation,
	}
	return PointInObject(p, &rect)
}

func hitCandidates(objects []*model.TableObject, opts HitOptions) []*model.TableObject {
	out := make([]*model.TableObject, 0, len(objects))
	for _, o := range objects {
		if o.ID == opts.ExcludeID || !o.OnTable() {
			continue
		}
		if !o.IsVisible() && !opts.Privileged {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ZIndex != b.ZIndex {
			return a.ZIndex > b.ZIndex
		}
		// Boards sit below every other kind.
		if (a.Kind == model.KindBoard) != (b.Kind == model.KindBoard) {
			return b.Kind == model.KindBoard
		}
		// Locked objects never outrank unlocked ones.
		if a.Locked != b.Locked {
			return b.Locked
		}
		return false
	})
	return out
}
