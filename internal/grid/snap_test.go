package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"tabletop-backend/internal/geom"
	"tabletop-backend/internal/model"
)

func squareBoard(cell float64) *model.TableObject {
	return &model.TableObject{
		ID: "board", Kind: model.KindBoard,
		X: 0, Y: 0, Width: 500, Height: 500,
		GridType: model.GridSquare, CellSize: cell,
	}
}

func hexBoard(size float64) *model.TableObject {
	return &model.TableObject{
		ID: "board", Kind: model.KindBoard,
		X: 0, Y: 0, Width: 1000, Height: 1000,
		GridType: model.GridHex, CellSize: size,
	}
}

func TestSnapSquare(t *testing.T) {
	objects := []*model.TableObject{squareBoard(50)}

	got := Snap(geom.Vec{X: 62, Y: 130}, objects, "")
	assert.Equal(t, geom.Vec{X: 75, Y: 125}, got)
}

func TestSnapNoBoardReturnsOriginal(t *testing.T) {
	p := geom.Vec{X: 62, Y: 130}

	assert.Equal(t, p, Snap(p, nil, ""))

	// A plain board without a grid does not qualify either.
	plain := squareBoard(50)
	plain.GridType = model.GridNone
	assert.Equal(t, p, Snap(p, []*model.TableObject{plain}, ""))
}

func TestSnapHexIdempotent(t *testing.T) {
	size := 50.0
	objects := []*model.TableObject{hexBoard(size)}

	// Centers of a few axial cells, computed with the pointy-top
	// formulas the resolver uses.
	for _, cell := range []struct{ q, r float64 }{{0, 0}, {2, 1}, {1, 3}, {4, 0}} {
		center := geom.Vec{
			X: size * (math.Sqrt(3)*cell.q + math.Sqrt(3)/2*cell.r),
			Y: size * 1.5 * cell.r,
		}
		if center.X < 0 || center.X > 1000 || center.Y < 0 || center.Y > 1000 {
			continue
		}
		got := Snap(center, objects, "")
		assert.InDelta(t, center.X, got.X, 1e-6, "q=%v r=%v", cell.q, cell.r)
		assert.InDelta(t, center.Y, got.Y, 1e-6, "q=%v r=%v", cell.q, cell.r)
	}
}

func TestSnapCollisionDisplacement(t *testing.T) {
	board := squareBoard(50)
	occupant := &model.TableObject{
		ID: "tok1", Kind: model.KindToken,
		X: 75 - 10, Y: 125 - 10, Width: 20, Height: 20, // centered on (75,125)
	}
	objects := []*model.TableObject{board, occupant}

	got := Snap(geom.Vec{X: 62, Y: 130}, objects, "")
	assert.Equal(t, geom.Vec{X: 75 + 5, Y: 125 + 5}, got)

	// The dragged object itself never collides with its own shadow.
	got = Snap(geom.Vec{X: 62, Y: 130}, objects, "tok1")
	assert.Equal(t, geom.Vec{X: 75, Y: 125}, got)

	// Locked occupants are not counted.
	occupant.Locked = true
	got = Snap(geom.Vec{X: 62, Y: 130}, objects, "")
	assert.Equal(t, geom.Vec{X: 75, Y: 125}, got)
}
