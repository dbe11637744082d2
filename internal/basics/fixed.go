package basics

// Fixed-point conversion helpers for the Q16.16 (DDFI, EFAA) and Q8.8
// (SCDT) formats described in spec §3. Each engine keeps its own shift/one
// constants locally — spec §9 explicitly rejects unifying engine-private
// edge representations behind a shared type — but the conversion itself is
// the same arithmetic everywhere, so it lives here once.

// ToFixed converts a float64 to a signed fixed-point value with the given
// fractional bit count (16 for Q16.16, 8 for Q8.8).
func ToFixed(v float64, shift uint) int64 {
	return int64(v * float64(int64(1)<<shift))
}

// FromFixed converts a fixed-point value back to float64.
func FromFixed(v int64, shift uint) float64 {
	return float64(v) / float64(int64(1)<<shift)
}

// FixedFloor returns the integer part of a fixed-point value (the pixel
// column/row it falls in).
func FixedFloor(v int64, shift uint) int64 {
	return v >> shift
}

// FixedFrac returns the fractional part of a fixed-point value as a
// fixed-point value of the same format, i.e. v & mask.
func FixedFrac(v int64, shift uint) int64 {
	mask := (int64(1) << shift) - 1
	return v & mask
}
