// Package grid snaps candidate placements onto board lattices.
package grid

import (
	"math"

	"tabletop-backend/internal/geom"
	"tabletop-backend/internal/model"
)

// collisionRadiusFactor scales the cell size into the radius within
// which an occupied center counts as a collision.
const collisionRadiusFactor = 0.4

// stackOffsetFactor scales the cell size into the per-collision
// displacement applied to stacked placements.
const stackOffsetFactor = 0.1

// Snap resolves a candidate world center against the grid-enabled
// boards among objects. When no board qualifies the original center is
// returned unchanged, so callers can always convert center-relative
// math back to top-left coordinates.
func Snap(center geom.Vec, objects []*model.TableObject, excludeID string) geom.Vec {
	board := boardUnder(center, objects)
	if board == nil {
		return center
	}

	var snapped geom.Vec
	switch board.GridType {
	case model.GridSquare:
		snapped = snapSquare(center, board)
	case model.GridHex:
		snapped = snapHex(center, board)
	default:
		return center
	}

	// Deterministic displacement keeps stacked placements visually
	// distinguishable instead of exactly overlapping.
	n := collisions(snapped, board.CellSize, objects, excludeID)
	if n > 0 {
		d := float64(n) * stackOffsetFactor * board.CellSize
		snapped.X += d
		snapped.Y += d
	}
	return snapped
}

// boardUnder returns the topmost on-table board with a square or hex
// grid whose bounds contain the point.
func boardUnder(p geom.Vec, objects []*model.TableObject) *model.TableObject {
	var best *model.TableObject
	for _, o := range objects {
		if o.Kind != model.KindBoard || !o.OnTable() {
			continue
		}
		if o.GridType != model.GridSquare && o.GridType != model.GridHex {
			continue
		}
		if o.CellSize <= 0 || !geom.PointInObject(p, o) {
			continue
		}
		if best == nil || o.ZIndex > best.ZIndex {
			best = o
		}
	}
	return best
}

func snapSquare(p geom.Vec, board *model.TableObject) geom.Vec {
	s := board.CellSize
	ix := math.Floor((p.X - board.X) / s)
	iy := math.Floor((p.Y - board.Y) / s)
	return geom.Vec{
		X: board.X + ix*s + s/2,
		Y: board.Y + iy*s + s/2,
	}
}

// snapHex uses pointy-top axial coordinates with the cell size as the
// hex radius.
func snapHex(p geom.Vec, board *model.TableObject) geom.Vec {
	size := board.CellSize
	rx := p.X - board.X
	ry := p.Y - board.Y

	q := (math.Sqrt(3)/3*rx - ry/3) / size
	r := (2.0 / 3.0 * ry) / size
	q, r = roundAxial(q, r)

	return geom.Vec{
		X: board.X + size*(math.Sqrt(3)*q+math.Sqrt(3)/2*r),
		Y: board.Y + size*1.5*r,
	}
}

// roundAxial rounds fractional axial coordinates to the nearest integer
// triple under q+r+s=0, correcting whichever rounded component carries
// the largest rounding error.
func roundAxial(q, r float64) (float64, float64) {
	s := -q - r
	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	dq := math.Abs(rq - q)
	dr := math.Abs(rr - r)
	ds := math.Abs(rs - s)

	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	}
	return rq, rr
}

// collisions counts other on-table, unlocked, visible objects whose
// centers sit within the collision radius of the target.
func collisions(target geom.Vec, cellSize float64, objects []*model.TableObject, excludeID string) int {
	radius := collisionRadiusFactor * cellSize
	n := 0
	for _, o := range objects {
		if o.ID == excludeID || o.Kind == model.KindBoard {
			continue
		}
		if !o.OnTable() || o.Locked || !o.IsVisible() {
			continue
		}
		dx := o.CenterX() - target.X
		dy := o.CenterY() - target.Y
		if math.Hypot(dx, dy) < radius {
			n++
		}
	}
	return n
}
