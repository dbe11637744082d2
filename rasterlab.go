// Package rasterlab is a CPU-based 2D polygon rasterization laboratory: a
// set of independent rasterizer engines, each implementing filled-polygon
// antialiasing with a distinct algorithm, sharing one common contract so
// they can be swapped in for side-by-side A/B comparison (see cmd/labview).
//
// The five engines are DDFI (differential flux integration), EFAA
// (scanline edge-flag antialiasing), HSGR (Hilbert-space guided
// rasterization), SCDT (ternary subpixel coverage decomposition), and SSAA
// (rotated-grid supersampling, the reference implementation). Each lives in
// its own internal/<name> package; this file only defines the shared
// surface.
package rasterlab

// Engine is the common contract every rasterizer in this module satisfies.
// It mirrors spec §4.1 and §6 exactly: construct out-of-band (each engine's
// own constructor takes width/height; engine-specific options such as
// SetTileOrder or SetFillRule are set on the engine afterwards), then
// Clear/DrawPolygon/Buffer in a loop.
type Engine interface {
	// Clear resets the pixel buffer and any engine-private scratch state to
	// bg (0xAARRGGBB). Idempotent: two successive Clear(bg) calls leave a
	// byte-identical buffer.
	Clear(bg uint32)

	// DrawPolygon rasterizes the closed polygon implied by vertices
	// ([x0,y0,x1,y1,...], length >= 6 and even) in color (0xAARRGGBB),
	// compositing source-over into the pixel buffer. Malformed or
	// fully off-screen input is a silent no-op per spec §7.
	DrawPolygon(vertices []float64, argb uint32)

	// Buffer returns the current row-major width*height ARGB pixel buffer.
	// The returned slice aliases engine-private storage and must be treated
	// as read-only by callers, and is invalidated by the next Clear or
	// DrawPolygon call.
	Buffer() []uint32

	// Width and Height report the fixed framebuffer dimensions passed to
	// the engine's constructor.
	Width() int
	Height() int
}
