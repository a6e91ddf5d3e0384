package model

// ObjectKind tagged object variant; determines hit shape and container rules
type ObjectKind string

const (
	KindBoard   ObjectKind = "BOARD"
	KindToken   ObjectKind = "TOKEN"
	KindCard    ObjectKind = "CARD"
	KindDeck    ObjectKind = "DECK"
	KindCounter ObjectKind = "COUNTER"
	KindDice    ObjectKind = "DICE"
	KindPanel   ObjectKind = "PANEL"
	KindWindow  ObjectKind = "WINDOW"
)

func (k ObjectKind) String() string {
	return string(k)
}

// CarryEligible reports whether long-press or modifier pickup applies
// to this kind. Only loose cards and tokens ride in the carry slot.
func (k ObjectKind) CarryEligible() bool {
	return k == KindCard || k == KindToken
}

// GridType board lattice type
type GridType string

const (
	GridNone   GridType = "NONE"
	GridSquare GridType = "SQUARE"
	GridHex    GridType = "HEX"
)

func (g GridType) String() string {
	return string(g)
}

// HolderKind where an object currently lives
type HolderKind string

const (
	HolderTable HolderKind = "TABLE"
	HolderDeck  HolderKind = "DECK"
	HolderPile  HolderKind = "PILE"
	HolderCarry HolderKind = "CARRY"
)

func (h HolderKind) String() string {
	return string(h)
}
