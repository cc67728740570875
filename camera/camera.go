// Package camera provides a 2D camera system for viewport control.
package camera

// Camera controls the viewport into a bounded grid. World coordinates are
// pixels at zoom 1, so cell (r, c) spans [c*CellSize, (c+1)*CellSize) on x.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions in cells and the cell size in world units
	Rows, Cols int
	CellSize   float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole grid.
func New(viewportW, viewportH float32, rows, cols int, cellSize float32) *Camera {
	if cellSize <= 0 {
		cellSize = 1
	}
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		CellSize:  cellSize,
		MaxZoom:   8.0,
	}
	c.SetGrid(rows, cols)
	c.Reset()
	return c
}

// WorldW returns the grid width in world units.
func (c *Camera) WorldW() float32 { return float32(c.Cols) * c.CellSize }

// WorldH returns the grid height in world units.
func (c *Camera) WorldH() float32 { return float32(c.Rows) * c.CellSize }

// SetGrid updates the grid dimensions, e.g. after a pattern grew the board.
func (c *Camera) SetGrid(rows, cols int) {
	c.Rows, c.Cols = rows, cols
	c.updateMinZoom()
	c.clampPosition()
}

// fitZoom is the zoom at which the whole grid fits the viewport.
func (c *Camera) fitZoom() float32 {
	ww, wh := c.WorldW(), c.WorldH()
	if ww <= 0 || wh <= 0 {
		return 1
	}
	return min(c.ViewportW/ww, c.ViewportH/wh)
}

// updateMinZoom lets the camera zoom out until the grid fits, or to 1:1
// for grids smaller than the viewport.
func (c *Camera) updateMinZoom() {
	c.MinZoom = min(c.fitZoom(), 1)
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// ScreenToCell returns the grid cell under a screen position and whether
// it lies inside the grid.
func (c *Camera) ScreenToCell(sx, sy float32) (row, col int, ok bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	if wx < 0 || wy < 0 {
		return 0, 0, false
	}
	row, col = int(wy/c.CellSize), int(wx/c.CellSize)
	if row >= c.Rows || col >= c.Cols {
		return 0, 0, false
	}
	return row, col, true
}

// CellRect returns the screen rectangle of cell (row, col).
func (c *Camera) CellRect(row, col int) (x, y, size float32) {
	x, y = c.WorldToScreen(float32(col)*c.CellSize, float32(row)*c.CellSize)
	return x, y, c.CellSize * c.Zoom
}

// VisibleCells returns the inclusive cell range on screen, clipped to the grid.
func (c *Camera) VisibleCells() (minRow, minCol, maxRow, maxCol int) {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	minCol = max(0, int(minX/c.CellSize))
	minRow = max(0, int(minY/c.CellSize))
	maxCol = min(c.Cols-1, int(maxX/c.CellSize))
	maxRow = min(c.Rows-1, int(maxY/c.CellSize))
	return
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
	c.clampPosition()
}

// Pan moves the camera by the given delta in screen pixels. The view stops
// at the grid edges; the grid does not wrap.
func (c *Camera) Pan(dx, dy float32) {
	// Convert screen delta to world delta (inverse of zoom)
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampPosition()
}

// clampPosition keeps the view inside the grid on each axis, centering the
// grid on axes where it is smaller than the view.
func (c *Camera) clampPosition() {
	c.X = clampAxis(c.X, c.ViewportW/(2*c.Zoom), c.WorldW())
	c.Y = clampAxis(c.Y, c.ViewportH/(2*c.Zoom), c.WorldH())
}

func clampAxis(pos, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(pos, half, size-half)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampPosition()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the grid and zooms to fit it.
func (c *Camera) Reset() {
	c.X = c.WorldW() / 2
	c.Y = c.WorldH() / 2
	c.SetZoom(c.fitZoom())
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
// Returns (minX, minY, maxX, maxY) in world coordinates.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
