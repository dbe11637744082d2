package scdt

// ternaryLUT is the 27-entry x 3-byte (81 byte) subpixel coverage table,
// indexed by a base-3 digit triple (t0,t1,t2) in {-1,0,1}^3 that refines an
// edge's fractional x-position in three successive thirds, per spec
// §4.5. Each entry holds independent R, G, B coverage bytes modeling three
// subpixel sample points offset -1/6, 0, +1/6 from the pixel center, each
// fed through a trapezoidal ramp of transition width 1/3.
var ternaryLUT [81]byte

// subpixelOffsets are the R, G, B sample offsets from the pixel center,
// spec §4.5.
var subpixelOffsets = [3]float64{-1.0 / 6, 0, 1.0 / 6}

const kernelWidth = 1.0 / 3

func init() {
	for t0 := -1; t0 <= 1; t0++ {
		for t1 := -1; t1 <= 1; t1++ {
			for t2 := -1; t2 <= 1; t2++ {
				f := float64(t0)/3 + float64(t1)/9 + float64(t2)/27 + 0.5
				idx := ternaryIndex(t0, t1, t2)
				for ch, off := range subpixelOffsets {
					ternaryLUT[idx+ch] = trapezoidCoverage(f, off)
				}
			}
		}
	}
}

func ternaryIndex(t0, t1, t2 int) int {
	return ((t0+1)*9 + (t1+1)*3 + (t2 + 1)) * 3
}

// trapezoidCoverage is the fraction of a kernelWidth-wide receptor centered
// at 0.5+off that lies left of the edge position f, clamped to [0,1] and
// quantized to a byte.
func trapezoidCoverage(f, off float64) byte {
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

// fracToTernaryIndex maps a Q0.8 fixed-point fraction (0..255) to a ternary
// LUT entry index in [0,26], per spec §4.5's "Fraction -> ternary index".
func fracToTernaryIndex(fracQ8 int) int {
	idx := (fracQ8 * 27) >> 8
	if idx < 0 {
		idx = 0
	}
	if idx > 26 {
		idx = 26
	}
	return idx
}
