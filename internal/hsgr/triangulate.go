package hsgr

import "github.com/rasterlab/rasterlab/internal/basics"

// triangulate ear-clips pts (already assumed duplicate-free and not closed)
// into CCW triangles, falling back to a fan from vertex 0 if ear-clipping
// cannot make progress within its guard budget — spec §4.4, §7, §9.
func triangulate(pts []basics.Point) [][3]basics.Point {
	pts = normalize(pts)
	n := len(pts)
	if n < 3 {
		return nil
	}
	if n == 3 {
		return [][3]basics.Point{{pts[0], pts[1], pts[2]}}
	}
	if tris, ok := earClip(pts); ok {
		return tris
	}
	return fan(pts)
}

// normalize strips a duplicated closing vertex and orients the polygon CCW
// (signed area > 0), per spec §4.4.
func normalize(pts []basics.Point) []basics.Point {
	if len(pts) == 0 {
		return pts
	}
	n := len(pts)
	if n > 1 {
		last := pts[n-1]
		first := pts[0]
		if last.X == first.X && last.Y == first.Y {
			pts = pts[:n-1]
			n--
		}
	}
	if n < 3 {
		return pts
	}
	if basics.SignedArea(pts) < 0 {
		reversed := make([]basics.Point, n)
		for i, p := range pts {
			reversed[n-1-i] = p
		}
		pts = reversed
	}
	return pts
}

func fan(pts []basics.Point) [][3]basics.Point {
	tris := make([][3]basics.Point, 0, len(pts)-2)
	for i := 1; i+1 < len(pts); i++ {
		tris = append(tris, [3]basics.Point{pts[0], pts[i], pts[i+1]})
	}
	return tris
}

// earClip removes ears one at a time until three vertices remain. It
// reports ok=false (triggering the fan fallback, with no partial work kept)
// if the guard budget is exhausted first — spec §4.4's "guard budget",
// §7's documented degrade-to-fan-for-concave-input behavior.
func earClip(pts []basics.Point) (tris [][3]basics.Point, ok bool) {
	n := len(pts)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	guard := 0
	maxGuard := n*n + 32
	tris = make([][3]basics.Point, 0, n-2)

	for len(idx) > 3 {
		found := false
		m := len(idx)
		for i := 0; i < m; i++ {
			guard++
			if guard > maxGuard {
				return nil, false
			}
			ip := idx[(i-1+m)%m]
			ic := idx[i]
			in := idx[(i+1)%m]
			a, b, c := pts[ip], pts[ic], pts[in]
			if edgeFn(a, b, c) <= 0 {
				continue // reflex or collinear at b, not an ear
			}
			if anyOtherVertexInside(pts, idx, ip, ic, in, a, b, c) {
				continue
			}
			tris = append(tris, [3]basics.Point{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			found = true
			break
		}
		if !found {
			return nil, false
		}
	}
	tris = append(tris, [3]basics.Point{pts[idx[0]], pts[idx[1]], pts[idx[2]]})
	return tris, true
}

func anyOtherVertexInside(pts []basics.Point, idx []int, ip, ic, in int, a, b, c basics.Point) bool {
	for _, j := range idx {
		if j == ip || j == ic || j == in {
			continue
		}
		p := pts[j]
		if edgeFn(a, b, p) >= 0 && edgeFn(b, c, p) >= 0 && edgeFn(c, a, p) >= 0 {
			return true
		}
	}
	return false
}

// edgeFn is the edge function of segment a->b evaluated at p: positive when
// p is to the left of a->b for a CCW-wound triangle. Shared with the
// per-tile edge functions in hsgr.go so triangulation and shading agree on
// orientation.
func edgeFn(a, b, p basics.Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}
