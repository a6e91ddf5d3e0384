package model

import "encoding/json"

// TableObject is any object placed on the shared surface. Business fields
// (card face art, counter values, deck authoring data) travel in Payload
// and are opaque to the interaction core.
type TableObject struct {
	ID       string     `json:"id"`
	Kind     ObjectKind `json:"kind"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Rotation float64    `json:"rotation"` // degrees, 0-360
	ZIndex   int        `json:"zIndex"`
	OwnerID  string     `json:"ownerId,omitempty"`
	Locked   bool       `json:"locked,omitempty"`
	Visible  *bool      `json:"visible,omitempty"` // nil means visible

	// Current container. Nil means free-standing on the table.
	Holder *Holder `json:"holder,omitempty"`

	// Deck-only fields.
	Cards []string `json:"cards,omitempty"` // ordered, index 0 is the top
	Piles []*Pile  `json:"piles,omitempty"`

	// Board-only fields.
	GridType GridType `json:"gridType,omitempty"`
	CellSize float64  `json:"cellSize,omitempty"`

	// Dice-only fields.
	Sides int `json:"sides,omitempty"`
	Value int `json:"value,omitempty"`

	// Click bindings. Cards inherit their deck's bindings when unset.
	SingleClickAction string `json:"singleClickAction,omitempty"`
	DoubleClickAction string `json:"doubleClickAction,omitempty"`

	Payload json.RawMessage `json:"payload,omitempty"`
}

// Holder identifies the container an object currently belongs to.
type Holder struct {
	Kind   HolderKind `json:"kind"`
	DeckID string     `json:"deckId,omitempty"`
	PileID string     `json:"pileId,omitempty"`
}

// Pile is a named ordered sub-sequence of cards attached to a deck,
// positioned relative to the deck's top-left corner.
type Pile struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Cards   []string `json:"cards,omitempty"` // index 0 is the top
	OffsetX float64  `json:"offsetX"`
	OffsetY float64  `json:"offsetY"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Locked  bool     `json:"locked,omitempty"`
	Visible *bool    `json:"visible,omitempty"`
}

// Snapshot is the complete shared state of one room's surface.
// Guests replace it wholesale, never patch it.
type Snapshot struct {
	Objects []*TableObject `json:"objects"`
}

// CenterX returns the object's center x in world coordinates.
func (o *TableObject) CenterX() float64 {
	return o.X + o.Width/2
}

// CenterY returns the object's center y in world coordinates.
func (o *TableObject) CenterY() float64 {
	return o.Y + o.Height/2
}

// IsVisible treats an unset flag as visible.
func (o *TableObject) IsVisible() bool {
	return o.Visible == nil || *o.Visible
}

// OnTable reports whether the object is free-standing on the surface.
func (o *TableObject) OnTable() bool {
	return o.Holder == nil || o.Holder.Kind == HolderTable
}

// IsVisible treats an unset flag as visible.
func (p *Pile) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// Clone returns a deep copy, so carry-slot entries and published
// snapshots never alias live state.
func (o *TableObject) Clone() *TableObject {
	cp := *o
	if o.Visible != nil {
		v := *o.Visible
		cp.Visible = &v
	}
	if o.Holder != nil {
		h := *o.Holder
		cp.Holder = &h
	}
	if o.Cards != nil {
		cp.Cards = append([]string(nil), o.Cards...)
	}
	if o.Piles != nil {
		cp.Piles = make([]*Pile, len(o.Piles))
		for i, p := range o.Piles {
			pc := *p
			if p.Cards != nil {
				pc.Cards = append([]string(nil), p.Cards...)
			}
			if p.Visible != nil {
				v := *p.Visible
				pc.Visible = &v
			}
			cp.Piles[i] = &pc
		}
	}
	if o.Payload != nil {
		cp.Payload = append(json.RawMessage(nil), o.Payload...)
	}
	return &cp
}

// Pile looks up a deck's pile by id.
func (o *TableObject) Pile(pileID string) *Pile {
	for _, p := range o.Piles {
		if p.ID == pileID {
			return p
		}
	}
	return nil
}
