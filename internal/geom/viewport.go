package geom

// Vec is a 2D point or delta.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + w.
func (v Vec) Add(w Vec) Vec {
	return Vec{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns v - w.
func (v Vec) Sub(w Vec) Vec {
	return Vec{X: v.X - w.X, Y: v.Y - w.Y}
}

// Camera maps between screen and world coordinates. The surface is
// logically unbounded; only zoom is clamped. All methods are pure and
// safe to call on every pointer-move tick.
type Camera struct {
	Offset  Vec
	Zoom    float64
	ZoomMin float64
	ZoomMax float64
}

// NewCamera returns a camera at origin with zoom 1 and the given clamp range.
func NewCamera(zoomMin, zoomMax float64) Camera {
	return Camera{Zoom: 1, ZoomMin: zoomMin, ZoomMax: zoomMax}
}

// ToWorld converts a screen point to world coordinates.
func (c Camera) ToWorld(screen Vec) Vec {
	return Vec{
		X: (screen.X - c.Offset.X) / c.Zoom,
		Y: (screen.Y - c.Offset.Y) / c.Zoom,
	}
}

// ToScreen converts a world point to screen coordinates.
func (c Camera) ToScreen(world Vec) Vec {
	return Vec{
		X: world.X*c.Zoom + c.Offset.X,
		Y: world.Y*c.Zoom + c.Offset.Y,
	}
}

// DeltaToWorld converts a screen-space delta to a world-space delta.
func (c Camera) DeltaToWorld(d Vec) Vec {
	return Vec{X: d.X / c.Zoom, Y: d.Y / c.Zoom}
}

// DeltaToScreen converts a world-space delta to a screen-space delta.
func (c Camera) DeltaToScreen(d Vec) Vec {
	return Vec{X: d.X * c.Zoom, Y: d.Y * c.Zoom}
}

// WithZoom returns a camera with the zoom clamped into range.
func (c Camera) WithZoom(zoom float64) Camera {
	if zoom < c.ZoomMin {
		zoom = c.ZoomMin
	}
	if zoom > c.ZoomMax {
		zoom = c.ZoomMax
	}
	c.Zoom = zoom
	return c
}

// WithOffset returns a camera panned to the given offset. The offset is
// unconstrained.
func (c Camera) WithOffset(offset Vec) Camera {
	c.Offset = offset
	return c
}
