package scdt

import "testing"

func pixelAt(buf []uint32, width, x, y int) uint32 {
	return buf[y*width+x]
}

func TestTernaryLUTSize(t *testing.T) {
	if len(ternaryLUT) != 81 {
		t.Fatalf("ternaryLUT length = %d, want 81", len(ternaryLUT))
	}
}

func TestTernaryLUTMonotoneAtPixelCenter(t *testing.T) {
	// Walking t0 from -1 to 1 with t1=t2=0 sweeps f from ~0.167 to ~0.833
	// through the green subpixel's center window; coverage must not
	// decrease.
	prev := -1
	for t0 := -1; t0 <= 1; t0++ {
		idx := ternaryIndex(t0, 0, 0)
		g := int(ternaryLUT[idx+1])
		if g < prev {
			t.Errorf("green coverage decreased at t0=%d: %d -> %d", t0, prev, g)
		}
		prev = g
	}
}

// TestTernaryLUTSumMatchesDiscreteIntegral checks spec §8's SCDT property:
// "sum of R+G+B coverage over the 27 entries matches the discrete integral
// of the trapezoidal kernel." The 27 ternary fractions are the midpoints
// (k+0.5)/27 for k in [0,26] (see lut.go's derivation), so this recomputes
// each channel's trapezoid coverage at those same 27 midpoints independently
// of lut.go's init() and compares the summed bytes.
func TestTernaryLUTSumMatchesDiscreteIntegral(t *testing.T) {
	const kernelWidth = 1.0 / 3
	offsets := [3]float64{-1.0 / 6, 0, 1.0 / 6}

	trapezoid := func(f, off float64) byte {
		center := 0.5 + off
		lo := center - kernelWidth/2
		hi := center + kernelWidth/2
		var cov float64
		switch {
		case f <= lo:
			cov = 0
		case f >= hi:
			cov = 1
		default:
			cov = (f - lo) / kernelWidth
		}
		return byte(cov*255 + 0.5)
	}

	for ch, off := range offsets {
		wantSum := 0
		for k := 0; k < 27; k++ {
			f := (float64(k) + 0.5) / 27
			wantSum += int(trapezoid(f, off))
		}
		gotSum := 0
		for k := 0; k < 27; k++ {
			gotSum += int(ternaryLUT[k*3+ch])
		}
		if gotSum != wantSum {
			t.Errorf("channel %d coverage sum = %d, want %d (discrete trapezoid integral)", ch, gotSum, wantSum)
		}
	}
}

func TestFracToTernaryIndexRange(t *testing.T) {
	if got := fracToTernaryIndex(0); got != 0 {
		t.Errorf("fracToTernaryIndex(0) = %d, want 0", got)
	}
	if got := fracToTernaryIndex(255); got != 26 {
		t.Errorf("fracToTernaryIndex(255) = %d, want 26", got)
	}
}

func TestClearIdempotent(t *testing.T) {
	e := New(8, 8)
	e.Clear(0xff000000)
	first := append([]uint32(nil), e.Buffer()...)
	e.Clear(0xff000000)
	second := e.Buffer()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pixel %d changed across idempotent clear: %#x -> %#x", i, first[i], second[i])
		}
	}
}

func TestEmptyPolygonNoOp(t *testing.T) {
	e := New(8, 8)
	e.Clear(0xff000000)
	before := append([]uint32(nil), e.Buffer()...)
	e.DrawPolygon([]float64{1, 1, 2, 2}, 0xffffffff)
	after := e.Buffer()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("buffer mutated by malformed polygon at %d", i)
		}
	}
}

func TestOffscreenPolygonNoOp(t *testing.T) {
	e := New(8, 8)
	e.Clear(0xff000000)
	before := append([]uint32(nil), e.Buffer()...)
	e.DrawPolygon([]float64{100, 100, 110, 100, 105, 110}, 0xffffffff)
	after := e.Buffer()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("buffer mutated by off-screen polygon at %d", i)
		}
	}
}

func TestSolidTriangleCentroidAndCorner(t *testing.T) {
	e := New(8, 8)
	e.Clear(0xff000000)
	e.DrawPolygon([]float64{1, 1, 7, 1, 4, 7}, 0xffffffff)
	buf := e.Buffer()
	if got := pixelAt(buf, 8, 4, 4); got != 0xffffffff {
		t.Errorf("centroid pixel = %#08x, want 0xffffffff", got)
	}
	if got := pixelAt(buf, 8, 0, 0); got != 0xff000000 {
		t.Errorf("corner pixel = %#08x, want 0xff000000", got)
	}
}

func TestFullFrameRectangleFromQuad(t *testing.T) {
	e := New(8, 8)
	e.Clear(0xff000000)
	e.DrawPolygon([]float64{0, 0, 8, 0, 8, 8, 0, 8}, 0xffff0000)
	buf := e.Buffer()
	for i, p := range buf {
		if p != 0xffff0000 {
			t.Fatalf("pixel %d = %#08x, want 0xffff0000", i, p)
		}
	}
}

// Scenario 2: the same rectangle drawn as two triangles sharing a
// diagonal, same color as each other. Because both triangles paint
// identical color, the boundary-column double composite from the open/close
// bias (see the Open Question in DESIGN.md) is idempotent here even though
// it would leave a visible seam for two *different*-colored shapes.
func TestFullFrameRectangleFromTwoTriangles(t *testing.T) {
	e := New(8, 8)
	e.Clear(0xff000000)
	e.DrawPolygon([]float64{0, 0, 8, 0, 8, 8}, 0xffff0000)
	e.DrawPolygon([]float64{0, 0, 8, 8, 0, 8}, 0xffff0000)
	buf := e.Buffer()
	for i, p := range buf {
		if p != 0xffff0000 {
			t.Fatalf("pixel %d = %#08x, want 0xffff0000", i, p)
		}
	}
}

func TestHalfAlphaBlendScenario3(t *testing.T) {
	e := New(8, 8)
	e.Clear(0xff000000)
	e.DrawPolygon([]float64{0, 0, 8, 0, 8, 8, 0, 8}, 0x80ffffff)
	buf := e.Buffer()
	c := pixelAt(buf, 8, 4, 4)
	r := int(c >> 16 & 0xff)
	if r < 125 || r > 131 {
		t.Errorf("interior blended channel = %d, want ~128", r)
	}
}

func TestDegenerateCollinearTriangleNoOp(t *testing.T) {
	e := New(8, 8)
	e.Clear(0xff000000)
	before := append([]uint32(nil), e.Buffer()...)
	e.DrawPolygon([]float64{0, 0, 4, 0, 8, 0}, 0xffffffff)
	after := e.Buffer()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("collinear triangle mutated pixel %d", i)
		}
	}
}

// mirrorVertices reflects a flat vertex array about column width/2, i.e.
// x' = width - x, per spec §8 invariant 6.
func mirrorVertices(verts []float64, width float64) []float64 {
	out := make([]float64, len(verts))
	for i := 0; i+1 < len(verts); i += 2 {
		out[i] = width - verts[i]
		out[i+1] = verts[i+1]
	}
	return out
}

// channelsWithinTolerance reports whether two ARGB pixels agree within tol
// gray levels per channel, the quantization floor spec §8 invariant 6 allows
// for AA engines.
func channelsWithinTolerance(a, b uint32, tol int) bool {
	for shift := uint(0); shift <= 24; shift += 8 {
		da := int(a>>shift&0xff) - int(b>>shift&0xff)
		if da < 0 {
			da = -da
		}
		if da > tol {
			return false
		}
	}
	return true
}

// TestMirrorSymmetry checks spec §8 invariant 6: rasterizing a polygon and
// its mirror image about column width/2 yields column-mirror-image pixel
// buffers, up to a small quantization floor.
func TestMirrorSymmetry(t *testing.T) {
	const width, height = 8, 8
	// Axis-aligned, integer-coordinate rectangle off-center in x: every
	// touched pixel gets exact 0 or 255 coverage, so the comparison isn't
	// sensitive to any engine's internal antialiasing sample pattern, which
	// need not itself be symmetric under an x-reflection (EFAA's rooks
	// offsets and SSAA's rotated grid both are not).
	rect := []float64{1, 2, 5, 2, 5, 6, 1, 6}

	e1 := New(width, height)
	e1.Clear(0xff000000)
	e1.DrawPolygon(rect, 0xffffffff)

	e2 := New(width, height)
	e2.Clear(0xff000000)
	e2.DrawPolygon(mirrorVertices(rect, width), 0xffffffff)

	buf1, buf2 := e1.Buffer(), e2.Buffer()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			got := pixelAt(buf1, width, x, y)
			mirrored := pixelAt(buf2, width, width-1-x, y)
			if !channelsWithinTolerance(got, mirrored, 2) {
				t.Fatalf("mirror asymmetry at (%d,%d): %#08x vs mirrored %#08x", x, y, got, mirrored)
			}
		}
	}
}

func TestOverlappingOpaqueTrianglesSecondWinsScenario6(t *testing.T) {
	e := New(8, 8)
	e.Clear(0xff000000)
	e.DrawPolygon([]float64{0, 0, 8, 0, 0, 8}, 0xffff0000)
	e.DrawPolygon([]float64{0, 0, 8, 0, 0, 8}, 0xff00ff00)
	if got := pixelAt(e.Buffer(), 8, 1, 1); got != 0xff00ff00 {
		t.Errorf("top triangle color = %#08x, want 0xff00ff00", got)
	}
}
