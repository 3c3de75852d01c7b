package dovibake

import "math"

// StaticReshaper is a Reshaper for content that needs no curve mapping.
// BL samples pass through; when EL processing is active the EL carries a
// residual centered at mid-code that is added to the BL sample.
type StaticReshaper struct {
	Frames int
	// FEL marks the stream as carrying a full enhancement layer.
	FEL bool
	// DisableELProcessing ignores the EL even for FEL streams.
	DisableELProcessing bool
	// MaxPq is a 12-bit PQ code, derived from MaxCLL when zero, or 4095.
	MaxPq int
	// MaxCLL in nits, derived from MaxPq when zero.
	MaxCLL       int
	Matrix       ColorMatrix
	LimitedRange bool
	// Skip lists frames whose metadata cannot be used.
	Skip map[int]bool
}

// FrameCount implements Reshaper.
func (s *StaticReshaper) FrameCount() int { return s.Frames }

// InitializeFrame implements Reshaper.
func (s *StaticReshaper) InitializeFrame(n int) (FrameReshaper, bool) {
	if n < 0 || n >= s.Frames || s.Skip[n] {
		return nil, false
	}
	maxPq := s.MaxPq
	switch {
	case maxPq > 0:
	case s.MaxCLL > 0:
		maxPq = NitsToPQ(float64(s.MaxCLL))
	default:
		maxPq = defaultMaxPq
	}
	maxCLL := s.MaxCLL
	if maxCLL <= 0 {
		maxCLL = int(math.Round(PQToNits(maxPq)))
	}
	return &staticFrame{
		ctx: ReshapingContext{
			Initialized:          true,
			FullEnhancementLayer: s.FEL,
			ELProcessingEnabled:  s.FEL && !s.DisableELProcessing,
			MaxPq:                maxPq,
			MaxContentLightLevel: maxCLL,
		},
		conv: newYccToRGB(s.Matrix, s.LimitedRange),
	}, true
}

type staticFrame struct {
	ctx  ReshapingContext
	conv yccToRGB
}

func (f *staticFrame) Context() ReshapingContext { return f.ctx }

func (f *staticFrame) DisableEL() { f.ctx.ELProcessingEnabled = false }

func (f *staticFrame) MapLuma(bl, el uint16) uint16 {
	return f.residual(bl, el)
}

func (f *staticFrame) MapU(blC, elC, _, _, _ uint16) uint16 {
	return f.residual(blC, elC)
}

func (f *staticFrame) MapV(blC, elC, _, _, _ uint16) uint16 {
	return f.residual(blC, elC)
}

func (f *staticFrame) ToRGB(y, u, v uint16) (r, g, b uint16) {
	return f.conv.convert(y, u, v)
}

func (f *staticFrame) residual(bl, el uint16) uint16 {
	if !f.ctx.ELProcessingEnabled {
		return bl
	}
	return clip16(int32(bl) + int32(el) - midSample)
}
