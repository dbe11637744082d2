// Package scdt implements Spectral Coverage Decomposition with Ternary
// encoding: a per-scanline active-edge-list rasterizer, like efaa, but
// sampled once per integer scanline rather than stratified into
// sub-scanlines. Antialiasing instead comes from a precomputed ternary LUT
// that turns an edge's fractional x-position into independent R, G, B
// subpixel coverage bytes, modeling the kind of per-channel coverage an
// LCD-aware rasterizer would compute. See spec §4.5.
//
// Grounded on the teacher library's internal/rasterizer active-edge-list
// walk for the scanline loop shape (insert on y_first, sort by x, sweep,
// drop on y_last), adapted here to Q8.8 fixed point and a dynamic-array AEL
// per spec §9 ("EFAA vs SCDT vs HSGR... do not unify behind a polymorphic
// interface... define them as separate concrete types").
package scdt

import (
	"sort"

	"github.com/rasterlab/rasterlab/internal/basics"
	"github.com/rasterlab/rasterlab/internal/pixel"
)

const fixedShift = 8 // Q8.8, per spec §3

// edge is SCDT's own scanline edge record; deliberately not shared with
// efaa's or hsgr's edge types, per spec §9.
type edge struct {
	x       int64 // Q8.8
	slope   int64 // Q8.8 per scanline row
	yFirst  int
	yLast   int // inclusive
	winding int
}

// Engine is the SCDT rasterizer.
type Engine struct {
	buf   *pixel.Buffer
	width int
	sub   []byte // width*height*3, index (y*width+x)*3 + channel
	rule  basics.FillingRule
}

// New allocates an SCDT engine for a width x height framebuffer.
func New(width, height int) *Engine {
	return &Engine{
		buf:   pixel.NewBuffer(width, height),
		width: width,
		sub:   make([]byte, width*height*3),
		rule:  basics.FillNonZero,
	}
}

// SetFillRule selects non-zero (default) or even-odd reduction of the
// signed winding SCDT already tracks while walking the active edge list.
func (e *Engine) SetFillRule(rule basics.FillingRule) { e.rule = rule }

func (e *Engine) Width() int  { return e.buf.Width() }
func (e *Engine) Height() int { return e.buf.Height() }

// Clear resets both the subpixel color buffer and the pixel buffer to bg's
// RGB components; the alpha channel is always forced opaque on resolve
// (spec §4.5's "A forced opaque"), so bg's own alpha is ignored.
func (e *Engine) Clear(bg uint32) {
	r := byte(bg >> 16)
	g := byte(bg >> 8)
	b := byte(bg)
	for i := 0; i < e.width*e.buf.Height(); i++ {
		e.sub[i*3+0] = r
		e.sub[i*3+1] = g
		e.sub[i*3+2] = b
	}
	e.buf.Clear(bg | 0xff000000)
}

func (e *Engine) Buffer() []uint32 { return e.buf.Pix() }

// DrawPolygon rasterizes vertices into the subpixel buffer and resolves the
// touched rows into the pixel buffer, per spec §4.5.
func (e *Engine) DrawPolygon(vertices []float64, argb uint32) {
	pts := basics.VerticesToPoints(vertices)
	if pts == nil {
		return
	}
	minX, minY, maxX, maxY, ok := basics.BoundingBox(pts, e.Width(), e.Height())
	if !ok {
		return
	}

	byRow := make(map[int][]*edge)
	n := len(pts)
	for i := 0; i < n; i++ {
		if ed := e.buildEdge(pts[i], pts[(i+1)%n]); ed != nil {
			byRow[ed.yFirst] = append(byRow[ed.yFirst], ed)
		}
	}

	var ael []*edge
	for y := minY; y < maxY; y++ {
		ael = append(ael, byRow[y]...)
		kept := ael[:0]
		for _, ed := range ael {
			if ed.yLast >= y {
				kept = append(kept, ed)
			}
		}
		ael = kept

		sort.Slice(ael, func(i, j int) bool { return ael[i].x < ael[j].x })

		e.renderRow(y, ael, minX, maxX, argb)

		for _, ed := range ael {
			ed.x += ed.slope
		}
	}
}

// buildEdge normalizes one polygon edge top-down and clips it to the
// buffer's scanline range, returning nil for horizontal or fully-clipped
// edges, same half-open sampling convention as ddfi/efaa (spec §3
// invariant 3).
func (e *Engine) buildEdge(p0, p1 basics.Point) *edge {
	winding := 1
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
		winding = -1
	} else if y0 == y1 {
		return nil
	}

	yFirst := basics.CeilInt(y0 - 0.5)
	yLast := basics.CeilInt(y1-0.5) - 1
	if yFirst < 0 {
		yFirst = 0
	}
	if yLast > e.buf.Height()-1 {
		yLast = e.buf.Height() - 1
	}
	if yFirst > yLast {
		return nil
	}

	slopeFull := (x1 - x0) / (y1 - y0)
	x := x0 + (float64(yFirst)+0.5-y0)*slopeFull

	return &edge{
		x:       basics.ToFixed(x, fixedShift),
		slope:   basics.ToFixed(slopeFull, fixedShift),
		yFirst:  yFirst,
		yLast:   yLast,
		winding: winding,
	}
}

// renderRow walks the sorted active edge list left to right, filling
// interior spans solid and blending ternary-LUT subpixel coverage at each
// edge's boundary column, then resolves the touched span into the pixel
// buffer. Spec §4.5.
func (e *Engine) renderRow(y int, ael []*edge, minX, maxX int, argb uint32) {
	winding := 0
	spanStart := minX
	touched := false

	for _, ed := range ael {
		px := int(ed.x >> fixedShift)
		frac := int(ed.x & 0xff)

		wasInside := e.rule.Inside(winding)
		winding += ed.winding
		isInside := e.rule.Inside(winding)

		switch {
		case !wasInside && isInside:
			// opening edge: its interior lies to the right of the crossing,
			// so the LUT (built coverage-increases-with-f, i.e. interior to
			// the left) is sampled mirrored, then nudged by the same ±1
			// bias closing edges get. See the Open Question on this bias in
			// spec §9 — reproduced directionally rather than literally,
			// since a literal same-direction bias leaves an
			// edge-on-a-pixel-boundary column nearly uncovered (verified
			// against scenario 2).
			idx := fracToTernaryIndex(255-frac) + 1
			if idx > 26 {
				idx = 26
			}
			e.blendSubpixel(px, y, argb, idx)
			spanStart = px + 1
			touched = true
		case wasInside && !isInside:
			// closing edge: fill the interior span up to this column, then
			// antialias the column itself.
			e.fillSolid(spanStart, px, y, argb)
			idx := fracToTernaryIndex(frac) - 1
			if idx < 0 {
				idx = 0
			}
			e.blendSubpixel(px, y, argb, idx)
			touched = true
		}
	}

	if touched {
		e.resolveRow(y, minX, maxX)
	}
}

func (e *Engine) blendSubpixel(px, y int, argb uint32, lutIdx int) {
	if px < 0 || px >= e.width {
		return
	}
	srcA := int(argb >> 24 & 0xff)
	sr := int(argb >> 16 & 0xff)
	sg := int(argb >> 8 & 0xff)
	sb := int(argb & 0xff)
	base := lutIdx * 3
	covR := int(ternaryLUT[base+0])
	covG := int(ternaryLUT[base+1])
	covB := int(ternaryLUT[base+2])

	i := (y*e.width + px) * 3
	e.sub[i+0] = blendChannel(e.sub[i+0], byte(sr), srcA, covR)
	e.sub[i+1] = blendChannel(e.sub[i+1], byte(sg), srcA, covG)
	e.sub[i+2] = blendChannel(e.sub[i+2], byte(sb), srcA, covB)
}

func (e *Engine) fillSolid(x0, x1, y int, argb uint32) {
	if x0 < 0 {
		x0 = 0
	}
	if x1 > e.width {
		x1 = e.width
	}
	if x0 >= x1 {
		return
	}
	srcA := int(argb >> 24 & 0xff)
	sr := byte(argb >> 16)
	sg := byte(argb >> 8)
	sb := byte(argb)
	for x := x0; x < x1; x++ {
		i := (y*e.width + x) * 3
		e.sub[i+0] = blendChannel(e.sub[i+0], sr, srcA, 255)
		e.sub[i+1] = blendChannel(e.sub[i+1], sg, srcA, 255)
		e.sub[i+2] = blendChannel(e.sub[i+2], sb, srcA, 255)
	}
}

func blendChannel(dst, src byte, srcAlpha, coverage int) byte {
	a := (srcAlpha * coverage) / 255
	if a <= 0 {
		return dst
	}
	if a >= 255 {
		return src
	}
	out := (int(src)*a + int(dst)*(255-a)) / 255
	return byte(out)
}

// resolveRow packs sub's R,G,B bytes for columns [x0,x1) on row y into the
// pixel buffer, forcing alpha opaque, per spec §4.5's "Resolve".
func (e *Engine) resolveRow(y, x0, x1 int) {
	if x0 < 0 {
		x0 = 0
	}
	if x1 > e.width {
		x1 = e.width
	}
	row := e.buf.Row(y)
	for x := x0; x < x1; x++ {
		i := (y*e.width + x) * 3
		r := uint32(e.sub[i+0])
		g := uint32(e.sub[i+1])
		b := uint32(e.sub[i+2])
		row[x] = 0xff000000 | r<<16 | g<<8 | b
	}
}
