// Package basics provides the small set of numeric and geometric primitives
// shared by every rasterizer engine: fixed-point conversion helpers, the
// vertex/point types polygons are built from, and the fill-rule enum.
//
// It mirrors the role (and much of the naming) of the teacher library's own
// internal/basics package, trimmed to exactly what a polygon-fill pipeline
// needs — no bezier, no stroking, no path/transform machinery, since those
// are out of scope for this module.
package basics

// FillingRule selects how a signed winding count is reduced to "inside" or
// "outside". Non-zero is the default for every engine per spec; even-odd is
// available wherever an engine already tracks a signed winding sum.
type FillingRule int

const (
	FillNonZero FillingRule = iota
	FillEvenOdd
)

// Inside reduces a signed winding number to a boolean under this rule.
func (r FillingRule) Inside(winding int) bool {
	if r == FillEvenOdd {
		return winding&1 != 0
	}
	return winding != 0
}

// Point is a single (x, y) vertex in caller (floating-point, pre-transform)
// space. Polygons are flat [x0,y0,x1,y1,...] arrays; engines decode them
// into Points at the boundary and never expose Point in their public API,
// matching spec §6 (flat f64 arrays in, u32 buffer out).
type Point struct {
	X, Y float64
}

// VerticesToPoints decodes a flat [x0,y0,x1,y1,...] array into Points.
// Returns nil if the array is malformed (odd length or fewer than 3
// vertices) per spec §7 — callers must treat a nil result as a no-op draw.
func VerticesToPoints(vertices []float64) []Point {
	if len(vertices) < 6 || len(vertices)%2 != 0 {
		return nil
	}
	n := len(vertices) / 2
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		pts[i] = Point{X: vertices[2*i], Y: vertices[2*i+1]}
	}
	return pts
}

// SignedArea returns twice the signed area of a closed polygon (positive
// for counter-clockwise winding in a standard y-down pixel grid flipped to
// math orientation — see HSGR, which is the only engine that cares about
// orientation directly).
func SignedArea(pts []Point) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum
}

// BoundingBox returns the integer pixel bounding box of pts, clamped to
// [0,width) x [0,height). The second return value is false if the box does
// not intersect the framebuffer at all (spec §7: fully off-screen polygons
// are a no-op).
func BoundingBox(pts []Point, width, height int) (minX, minY, maxX, maxY int, ok bool) {
	minXf, minYf := pts[0].X, pts[0].Y
	maxXf, maxYf := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minXf {
			minXf = p.X
		}
		if p.X > maxXf {
			maxXf = p.X
		}
		if p.Y < minYf {
			minYf = p.Y
		}
		if p.Y > maxYf {
			maxYf = p.Y
		}
	}
	if maxXf < 0 || minXf > float64(width) || maxYf < 0 || minYf > float64(height) {
		return 0, 0, 0, 0, false
	}
	minX = clampInt(FloorInt(minXf), 0, width)
	maxX = clampInt(CeilInt(maxXf), 0, width)
	minY = clampInt(FloorInt(minYf), 0, height)
	maxY = clampInt(CeilInt(maxYf), 0, height)
	if minX >= maxX || minY >= maxY {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX, maxY, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FloorInt and CeilInt avoid a math.Floor/math.Ceil + float64->int round
// trip in hot per-edge loops; both are exact for the magnitudes a polygon
// rasterizer ever sees (framebuffer coordinates, not astronomical units).
func FloorInt(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

func CeilInt(v float64) int {
	i := int(v)
	if v > 0 && float64(i) != v {
		i++
	}
	return i
}
