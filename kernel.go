package dovibake

// Generator produces one output sample from gathered tap values.
// center is the index of the tap at offset 0.
type Generator func(v []uint16, center int) uint16

// Kernel describes a polyphase 2x upsampling filter.
//
// Offsets are tap positions relative to the source sample being expanded,
// ascending, with Offsets[Before] == 0. Even produces output sample 2i and
// Odd produces 2i+1.
type Kernel struct {
	Name    string
	Offsets []int
	Before  int
	Even    Generator
	Odd     Generator
}

// After is the number of taps following the center tap.
func (k Kernel) After() int { return len(k.Offsets) - k.Before - 1 }

// Span is the number of taps.
func (k Kernel) Span() int { return len(k.Offsets) }

// tapIndex returns the source index read by tap i when expanding position pos
// of an axis with n samples. Taps before the center are clamped to 0 and taps
// after it to n-1.
func (k Kernel) tapIndex(i, pos, n int) int {
	switch {
	case i < k.Before:
		if idx := pos + k.Offsets[i]; idx > 0 {
			return idx
		}
		return 0
	case i == k.Before:
		return pos
	default:
		if idx := pos + k.Offsets[i]; idx < n-1 {
			return idx
		}
		return n - 1
	}
}

// LumaKernel upsamples EL luma. Even outputs are co-sited with the source,
// odd outputs are half-phase.
var LumaKernel = Kernel{
	Name:    "luma5",
	Offsets: []int{-2, -1, 0, 1, 2},
	Before:  2,
	Even: func(v []uint16, c int) uint16 {
		return fir7(-1*int32(v[c-2]) + 4*int32(v[c-1]) + 122*int32(v[c]) + 4*int32(v[c+1]) - 1*int32(v[c+2]))
	},
	Odd: func(v []uint16, c int) uint16 {
		return fir7(-8*int32(v[c-1]) + 72*int32(v[c]) + 72*int32(v[c+1]) - 8*int32(v[c+2]))
	},
}

// ChromaKernel upsamples chroma with 4-tap Catmull-Rom quarter-phase filters.
var ChromaKernel = Kernel{
	Name:    "chroma4",
	Offsets: []int{-1, 0, 1, 2},
	Before:  1,
	Even: func(v []uint16, c int) uint16 {
		return fir7(-9*int32(v[c-1]) + 111*int32(v[c]) + 29*int32(v[c+1]) - 3*int32(v[c+2]))
	},
	Odd: func(v []uint16, c int) uint16 {
		return fir7(-3*int32(v[c-1]) + 29*int32(v[c]) + 111*int32(v[c+1]) - 9*int32(v[c+2]))
	},
}

// fir7 rounds a sum of 7-bit fixed-point products and clips it to a sample.
func fir7(sum int32) uint16 {
	return clip16((sum + 64) >> 7)
}

func clip16(v int32) uint16 {
	if v < 0 {
		return 0
	}
	if v > maxSample {
		return maxSample
	}
	return uint16(v)
}
