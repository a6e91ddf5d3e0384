package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"tabletop-backend/internal/model"
)

func rect(id string, x, y, w, h float64, z int) *model.TableObject {
	return &model.TableObject{ID: id, Kind: model.KindToken, X: x, Y: y, Width: w, Height: h, ZIndex: z}
}

func TestPointInObjectUnrotated(t *testing.T) {
	o := rect("a", 0, 0, 100, 100, 1)

	assert.True(t, PointInObject(Vec{X: 50, Y: 50}, o))
	assert.False(t, PointInObject(Vec{X: 150, Y: 50}, o))
}

func TestPointInObjectRotated45(t *testing.T) {
	o := rect("a", 0, 0, 100, 100, 1)
	o.Rotation = 45

	// The original corner is outside the rotated box...
	assert.False(t, PointInObject(Vec{X: 0, Y: 0}, o))
	// ...but the rotated corner positions are inside. Corner (0,0)
	// rotated 45 degrees about the center (50,50) lands at
	// (50, 50-50*sqrt2).
	rotatedCorner := Vec{X: 50, Y: 50 - 50*math.Sqrt2 + 0.001}
	assert.True(t, PointInObject(rotatedCorner, o))
}

func TestHitTestZOrderPrecedence(t *testing.T) {
	objects := []*model.TableObject{
		rect("below", 0, 0, 100, 100, 1),
		rect("above", 0, 0, 100, 100, 2),
	}

	assert.Equal(t, "above", HitTest(Vec{X: 50, Y: 50}, objects, HitOptions{}))
}

func TestHitTestTieBreaks(t *testing.T) {
	board := rect("board", 0, 0, 100, 100, 5)
	board.Kind = model.KindBoard
	token := rect("token", 0, 0, 100, 100, 5)

	// Boards lose ties to every other kind.
	assert.Equal(t, "token", HitTest(Vec{X: 50, Y: 50}, []*model.TableObject{board, token}, HitOptions{}))

	locked := rect("locked", 0, 0, 100, 100, 5)
	locked.Locked = true
	free := rect("free", 0, 0, 100, 100, 5)

	// Locked objects never outrank unlocked ones.
	assert.Equal(t, "free", HitTest(Vec{X: 50, Y: 50}, []*model.TableObject{locked, free}, HitOptions{}))
}

func TestHitTestExcludeAndMiss(t *testing.T) {
	objects := []*model.TableObject{rect("a", 0, 0, 100, 100, 1)}

	assert.Equal(t, "", HitTest(Vec{X: 50, Y: 50}, objects, HitOptions{ExcludeID: "a"}))
	assert.Equal(t, "", HitTest(Vec{X: 500, Y: 500}, objects, HitOptions{}))
}

func TestHitTestInvisibleSkippedForRegularViewer(t *testing.T) {
	hidden := rect("hidden", 0, 0, 100, 100, 2)
	no := false
	hidden.Visible = &no
	shown := rect("shown", 0, 0, 100, 100, 1)

	objects := []*model.TableObject{hidden, shown}
	assert.Equal(t, "shown", HitTest(Vec{X: 50, Y: 50}, objects, HitOptions{}))
	assert.Equal(t, "hidden", HitTest(Vec{X: 50, Y: 50}, objects, HitOptions{Privileged: true}))
}

func TestResolveDropTargetPileBeforeDeck(t *testing.T) {
	deck := &model.TableObject{
		ID: "deck1", Kind: model.KindDeck, X: 0, Y: 0, Width: 200, Height: 120, ZIndex: 3,
		Piles: []*model.Pile{
			{ID: "discard", Name: "discard", OffsetX: 150, OffsetY: 0, Width: 50, Height: 120},
		},
	}
	objects := []*model.TableObject{deck}

	// Inside the pile strip, which also lies inside the deck's region.
	target := ResolveDropTarget(Vec{X: 170, Y: 60}, objects, HitOptions{})
	assert.Equal(t, DropPile, target.Kind)
	assert.Equal(t, "deck1", target.DeckID)
	assert.Equal(t, "discard", target.PileID)

	// Deck body outside any pile.
	target = ResolveDropTarget(Vec{X: 50, Y: 60}, objects, HitOptions{})
	assert.Equal(t, DropDeck, target.Kind)
	assert.Equal(t, "deck1", target.DeckID)

	// Bare table.
	target = ResolveDropTarget(Vec{X: 900, Y: 900}, objects, HitOptions{})
	assert.Equal(t, DropTabletop, target.Kind)
}
