package dovibake

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vearutop/dovibake/internal/cube"
)

// Interpolator maps normalized RGB rows through a 3D LUT in place.
type Interpolator interface {
	Process(r, g, b []float32)
}

// LUTEntry pairs a LUT with the max content light level threshold of its bucket.
type LUTEntry struct {
	Threshold uint16
	LUT       Interpolator
}

// LUTTable is an ascending sequence of LUT entries.
type LUTTable []LUTEntry

// LUTSpec names a .cube file for LoadLUTs.
type LUTSpec struct {
	Threshold uint16
	Path      string
}

// LoadLUTs reads the .cube files of specs into a table.
func LoadLUTs(specs []LUTSpec) (LUTTable, error) {
	t := make(LUTTable, 0, len(specs))
	for _, s := range specs {
		c, err := cube.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLUT, err)
		}
		t = append(t, LUTEntry{Threshold: s.Threshold, LUT: c})
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that thresholds are non-decreasing and every LUT is set.
func (t LUTTable) Validate() error {
	for i, e := range t {
		if e.LUT == nil {
			return fmt.Errorf("%w: LUT %d is nil", ErrConfig, i)
		}
	}
	if !sort.SliceIsSorted(t, func(i, j int) bool { return t[i].Threshold < t[j].Threshold }) {
		return fmt.Errorf("%w: LUT thresholds must be ascending", ErrConfig)
	}
	return nil
}

// Select returns the LUT for a frame with the given max content light level,
// or nil for an empty table.
//
// The last LUT is the default. Scanning from the second entry, the first
// threshold that is not below cll selects the LUT preceding it, so the first
// LUT covers every cll up to the second threshold.
func (t LUTTable) Select(cll int) Interpolator {
	if len(t) == 0 {
		return nil
	}
	lut := t[len(t)-1].LUT
	for i := 1; i < len(t); i++ {
		if cll <= int(t[i].Threshold) {
			lut = t[i-1].LUT
			break
		}
	}
	return lut
}

var float32Pool = sync.Pool{
	New: func() any {
		buf := make([]float32, 0)
		return &buf
	},
}

// ApplyLUT maps every sample of the RGB frame f through lut in place.
// Rows are staged as floats in a pooled buffer aligned to lutAlign samples.
func ApplyLUT(f *Frame, lut Interpolator) error {
	if f.Layout != LayoutRGB {
		return fmt.Errorf("%w: LUT needs an RGB frame, got %s", ErrConfig, f.Layout)
	}
	width := f.Width()
	aligned := alignUp(width, lutAlign)

	tmp := getFloat32(aligned * 3)
	defer putFloat32(tmp)

	rf, gf, bf := tmp[:width], tmp[aligned:aligned+width], tmp[2*aligned:2*aligned+width]
	for h := 0; h < f.Height(); h++ {
		r, g, b := f.Planes[0].Row(h), f.Planes[1].Row(h), f.Planes[2].Row(h)
		toFloat(rf, r)
		toFloat(gf, g)
		toFloat(bf, b)
		lut.Process(rf, gf, bf)
		fromFloat(r, rf)
		fromFloat(g, gf)
		fromFloat(b, bf)
	}
	return nil
}

func toFloat(dst []float32, src []uint16) {
	for i, v := range src {
		dst[i] = float32(v) / maxSample
	}
}

func fromFloat(dst []uint16, src []float32) {
	for i, v := range src {
		dst[i] = clampToUint16(v * maxSample)
	}
}

func clampToUint16(v float32) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= maxSample {
		return maxSample
	}
	return uint16(v + 0.5)
}

func getFloat32(n int) []float32 {
	bufPtr := float32Pool.Get().(*[]float32)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

func putFloat32(buf []float32) {
	if buf == nil {
		return
	}
	buf = buf[:0]
	float32Pool.Put(&buf)
}
