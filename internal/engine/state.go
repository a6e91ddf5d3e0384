// Package engine holds one participant's working copy of the shared
// surface and the mutations the interaction layer performs on it.
//
// Everything here runs on a single event loop; there is no internal
// locking. On the host the working state is authoritative, on guests it
// is replaced wholesale by every incoming snapshot.
package engine

import (
	"fmt"
	"sort"

	"tabletop-backend/internal/model"
)

// Actor identifies who is performing a mutation. Privileged actors
// bypass lock, ownership and visibility restrictions.
type Actor struct {
	ID         string
	Privileged bool
}

// State is the local mutable object collection.
type State struct {
	objects map[string]*model.TableObject
}

// NewState builds a working state from a snapshot. A nil snapshot
// yields an empty surface (the host has not published yet).
func NewState(snap *model.Snapshot) *State {
	s := &State{objects: make(map[string]*model.TableObject)}
	if snap != nil {
		s.Replace(snap)
	}
	return s
}

// Replace adopts a snapshot wholesale, discarding local state.
func (s *State) Replace(snap *model.Snapshot) {
	s.objects = make(map[string]*model.TableObject, len(snap.Objects))
	for _, o := range snap.Objects {
		s.objects[o.ID] = o.Clone()
	}
}

// Snapshot returns a deep copy of the full state, ordered by z-index,
// suitable for publishing.
func (s *State) Snapshot() *model.Snapshot {
	out := &model.Snapshot{Objects: make([]*model.TableObject, 0, len(s.objects))}
	for _, o := range s.objects {
		out.Objects = append(out.Objects, o.Clone())
	}
	sort.SliceStable(out.Objects, func(i, j int) bool {
		return out.Objects[i].ZIndex < out.Objects[j].ZIndex
	})
	return out
}

// Get returns an object by id.
func (s *State) Get(id string) (*model.TableObject, bool) {
	o, ok := s.objects[id]
	return o, ok
}

// OnTable returns the free-standing objects, the only ones that
// participate in hit testing and snapping.
func (s *State) OnTable() []*model.TableObject {
	out := make([]*model.TableObject, 0, len(s.objects))
	for _, o := range s.objects {
		if o.OnTable() {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// Add inserts an object. An existing object with the same id is
// replaced; ids are unique within a snapshot.
func (s *State) Add(o *model.TableObject) {
	s.objects[o.ID] = o
}

// Delete removes an object outright.
func (s *State) Delete(id string) {
	delete(s.objects, id)
}

// CanManipulate reports whether the actor may drag, resize or rotate
// the object. Locks and ownership bind non-privileged actors only.
func (s *State) CanManipulate(actor Actor, o *model.TableObject) bool {
	if actor.Privileged {
		return true
	}
	if o.Locked {
		return false
	}
	if o.OwnerID != "" && o.OwnerID != actor.ID {
		return false
	}
	return true
}

// MaxZ returns the highest z-index currently in use.
func (s *State) MaxZ() int {
	max := 0
	for _, o := range s.objects {
		if o.ZIndex > max {
			max = o.ZIndex
		}
	}
	return max
}

// BringToFront bumps the object above everything else.
func (s *State) BringToFront(id string) {
	if o, ok := s.objects[id]; ok {
		o.ZIndex = s.MaxZ() + 1
	}
}

// MoveTo sets the object's top-left position.
func (s *State) MoveTo(id string, x, y float64) error {
	o, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("object %s not found", id)
	}
	o.X = x
	o.Y = y
	return nil
}

// Detach removes an object from whatever container holds it (table,
// deck main sequence, or pile) and deletes it from the collection. The
// returned object is the caller's to reinsert.
func (s *State) Detach(id string) (*model.TableObject, bool) {
	o, ok := s.objects[id]
	if !ok {
		return nil, false
	}
	if o.Holder != nil {
		switch o.Holder.Kind {
		case model.HolderDeck:
			if deck, ok := s.objects[o.Holder.DeckID]; ok {
				deck.Cards = removeID(deck.Cards, id)
			}
		case model.HolderPile:
			if deck, ok := s.objects[o.Holder.DeckID]; ok {
				if pile := deck.Pile(o.Holder.PileID); pile != nil {
					pile.Cards = removeID(pile.Cards, id)
				}
			}
		}
	}
	delete(s.objects, id)
	o.Holder = nil
	return o, true
}

// InsertDeckTop puts a card object on top of a deck's main sequence.
func (s *State) InsertDeckTop(deckID string, card *model.TableObject) error {
	deck, ok := s.objects[deckID]
	if !ok || deck.Kind != model.KindDeck {
		return fmt.Errorf("deck %s not found", deckID)
	}
	card.Holder = &model.Holder{Kind: model.HolderDeck, DeckID: deckID}
	deck.Cards = append([]string{card.ID}, deck.Cards...)
	s.objects[card.ID] = card
	return nil
}

// InsertPileTop puts a card object on top of a named pile.
func (s *State) InsertPileTop(deckID, pileID string, card *model.TableObject) error {
	deck, ok := s.objects[deckID]
	if !ok || deck.Kind != model.KindDeck {
		return fmt.Errorf("deck %s not found", deckID)
	}
	pile := deck.Pile(pileID)
	if pile == nil {
		return fmt.Errorf("pile %s not found on deck %s", pileID, deckID)
	}
	card.Holder = &model.Holder{Kind: model.HolderPile, DeckID: deckID, PileID: pileID}
	pile.Cards = append([]string{card.ID}, pile.Cards...)
	s.objects[card.ID] = card
	return nil
}

// PlaceOnTable puts an object free-standing on the surface at the given
// top-left position, above everything already there.
func (s *State) PlaceOnTable(o *model.TableObject, x, y float64) {
	o.Holder = nil
	o.X = x
	o.Y = y
	o.ZIndex = s.MaxZ() + 1
	s.objects[o.ID] = o
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
