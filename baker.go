package dovibake

import (
	"errors"
	"fmt"

	"github.com/cnotch/xlog"
)

// Baker reconstructs output frames from a BL source, an optional EL source
// and a Reshaper. Its configuration is fixed at construction and GetFrame
// keeps all per-frame state local, so frames may be requested concurrently.
type Baker struct {
	bl       Source
	el       Source
	reshaper Reshaper

	width, height int
	blLayout      Layout
	elLayout      Layout
	geom          layerGeometry

	fastPath  bool
	outputYUV bool
	luts      LUTTable

	logger *xlog.Logger
}

// NewBaker validates the sources against each other and the reshaper.
// el may be nil when the stream has no enhancement layer.
func NewBaker(bl, el Source, reshaper Reshaper, opts ...func(o *Options)) (*Baker, error) {
	if bl == nil || reshaper == nil {
		return nil, fmt.Errorf("%w: BL source and reshaper are required", ErrConfig)
	}
	opt := Options{}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if opt.Logger == nil {
		opt.Logger = xlog.L()
	}

	b := &Baker{
		bl:        bl,
		el:        el,
		reshaper:  reshaper,
		blLayout:  bl.Layout(),
		fastPath:  opt.FastPath,
		outputYUV: opt.OutputYUV,
		luts:      opt.LUTs,
		logger:    opt.Logger.With(xlog.Fields(xlog.F("component", "baker"))),
	}
	b.width, b.height = bl.Size()

	if bl.BitDepth() != containerBitDepth {
		return nil, fmt.Errorf("BL: %w", ErrBitDepth)
	}
	if bl.FrameCount() != reshaper.FrameCount() {
		return nil, fmt.Errorf("%w: BL has %d frames, metadata %d", ErrFrameCount, bl.FrameCount(), reshaper.FrameCount())
	}
	if err := checkLumaSize(b.blLayout, b.width, b.height); err != nil {
		return nil, fmt.Errorf("BL: %w", err)
	}

	b.elLayout = b.blLayout
	if el != nil {
		if el.BitDepth() != containerBitDepth {
			return nil, fmt.Errorf("EL: %w", ErrBitDepth)
		}
		if el.FrameCount() < bl.FrameCount() {
			return nil, fmt.Errorf("%w: EL has %d frames, BL %d", ErrFrameCount, el.FrameCount(), bl.FrameCount())
		}
		b.elLayout = el.Layout()
		ew, eh := el.Size()
		switch {
		case ew == b.width && eh == b.height:
		case ew*2 == b.width && eh*2 == b.height:
			b.geom.quarter = 1
		default:
			return nil, fmt.Errorf("%w: EL %dx%d does not match BL %dx%d", ErrGeometry, ew, eh, b.width, b.height)
		}
		if err := checkLumaSize(b.elLayout, ew, eh); err != nil {
			return nil, fmt.Errorf("EL: %w", err)
		}
	}
	if b.blLayout.Subsampled() {
		b.geom.blSub = 1
	}
	if b.elLayout.Subsampled() {
		b.geom.elSub = 1
	}

	if b.fastPath {
		if b.outputYUV {
			return nil, fmt.Errorf("%w: fast path produces RGB only", ErrConfig)
		}
		if b.blLayout == LayoutYUV422 || b.elLayout == LayoutYUV422 {
			return nil, fmt.Errorf("%w: fast path does not support 4:2:2", ErrConfig)
		}
	}
	if err := b.luts.Validate(); err != nil {
		return nil, err
	}
	if b.outputYUV && len(b.luts) > 0 {
		b.logger.Warnf("%d LUTs ignored for YUV output", len(b.luts))
	}

	b.logger.Infof("bl %dx%d %s, el %s quarter=%t, fast=%t, yuv=%t, luts=%d",
		b.width, b.height, b.blLayout, b.elLayout, b.geom.quarter == 1, b.fastPath, b.outputYUV, len(b.luts))

	return b, nil
}

func checkLumaSize(l Layout, w, h int) error {
	if l == LayoutRGB {
		return fmt.Errorf("%w: input must be YUV", ErrConfig)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty %dx%d frame", ErrGeometry, w, h)
	}
	sx, sy := l.chromaShift()
	if w%(1<<sx) != 0 || h%(1<<sy) != 0 {
		return fmt.Errorf("%w: %s needs even dimensions, got %dx%d", ErrGeometry, l, w, h)
	}
	return nil
}

// FrameCount is the number of frames the BL source provides.
func (b *Baker) FrameCount() int { return b.bl.FrameCount() }

// Size is the output luma size.
func (b *Baker) Size() (w, h int) { return b.width, b.height }

// GetFrame reconstructs frame n.
//
// When the reshaper cannot initialize the frame the result is nil and the
// error wraps ErrFrameSkipped; any other error is fatal for the stream.
func (b *Baker) GetFrame(n int) (*Frame, error) {
	blSrc, err := b.bl.Frame(n)
	if err != nil {
		return nil, fmt.Errorf("BL: %w", err)
	}
	if err := b.checkFrame(blSrc, b.blLayout, b.width, b.height); err != nil {
		return nil, fmt.Errorf("BL frame %d: %w", n, err)
	}
	elSrc := blSrc
	if b.el != nil {
		if elSrc, err = b.el.Frame(n); err != nil {
			return nil, fmt.Errorf("EL: %w", err)
		}
		if err := b.checkFrame(elSrc, b.elLayout, b.width>>b.geom.quarter, b.height>>b.geom.quarter); err != nil {
			return nil, fmt.Errorf("EL frame %d: %w", n, err)
		}
	}

	fr, ok := b.reshaper.InitializeFrame(n)
	if !ok {
		b.logger.Warnf("frame %d: reshaper initialization failed", n)
		return nil, fmt.Errorf("frame %d: %w", n, ErrFrameSkipped)
	}
	ctx := fr.Context()

	var lut Interpolator
	if !b.outputYUV {
		lut = b.luts.Select(ctx.MaxContentLightLevel)
	}

	skipEL := b.el == nil || !ctx.FullEnhancementLayer || !ctx.ELProcessingEnabled
	if skipEL {
		fr.DisableEL()
	}
	if ctx.FullEnhancementLayer && b.el == nil {
		return nil, ErrMissingEL
	}

	if b.logger.LevelEnabled(xlog.DebugLevel) {
		b.logger.Debugf("frame %d: fel=%t skip_el=%t max_pq=%d max_cll=%d lut=%t",
			n, ctx.FullEnhancementLayer, skipEL, ctx.MaxPq, ctx.MaxContentLightLevel, lut != nil)
	}

	var dst *Frame
	if b.fastPath {
		dst = b.bakeFast(blSrc, elSrc, skipEL, fr)
	} else {
		mez, sub := b.bakeStaged(blSrc, elSrc, skipEL, fr)
		if b.outputYUV {
			mez.Props = blSrc.Props.Clone()
			mez.Props[PropMaxPq] = int64(ctx.MaxPq)
			mez.Props[PropMaxCLL] = int64(ctx.MaxContentLightLevel)
			return mez, nil
		}
		if sub == 1 {
			mez = upsampleChroma(mez)
		}
		dst = NewFrame(LayoutRGB, b.width, b.height)
		convertToRGB(dst, mez.Y(), mez.U(), mez.V(), fr)
	}

	if lut != nil {
		if err := ApplyLUT(dst, lut); err != nil {
			return nil, fmt.Errorf("frame %d: %w", n, err)
		}
	}

	dst.Props = blSrc.Props.Clone()
	dst.Props[PropMatrix] = propMatrixRGB
	dst.Props[PropColorRange] = propRangeFull
	delete(dst.Props, PropChromaLocation)
	dst.Props[PropMaxPq] = int64(ctx.MaxPq)
	dst.Props[PropMaxCLL] = int64(ctx.MaxContentLightLevel)

	return dst, nil
}

func (b *Baker) checkFrame(f *Frame, l Layout, w, h int) error {
	if f == nil {
		return errors.New("nil frame")
	}
	if f.Layout != l || f.Width() != w || f.Height() != h {
		return fmt.Errorf("%w: got %dx%d %s, want %dx%d %s", ErrGeometry, f.Width(), f.Height(), f.Layout, w, h, l)
	}
	return f.checkLayout()
}

func (b *Baker) bakeFast(bl, el *Frame, skipEL bool, fr FrameReshaper) *Frame {
	g := b.geom
	if skipEL {
		el = bl
		g.elSub, g.quarter = g.blSub, 0
	}
	dst := NewFrame(LayoutRGB, b.width, b.height)
	combineFast(dst, bl, el, g, fr)
	return dst
}

// bakeStaged normalizes BL and EL to one resolution and chroma subsampling
// and combines them into a YUV frame. It returns the frame and its chroma
// subsampling (1 for 4:2:0, 0 for 4:4:4).
func (b *Baker) bakeStaged(bl, el *Frame, skipEL bool, fr FrameReshaper) (*Frame, int) {
	if bl.Layout == LayoutYUV422 {
		bl = upsampleChroma(bl)
	}
	blSub := 0
	if bl.Layout == LayoutYUV420 {
		blSub = 1
	}
	blC, elC := bl, bl
	sub := blSub

	if skipEL {
		el = bl
	} else {
		if el.Layout == LayoutYUV422 {
			el = upsampleChroma(el)
		}
		if b.geom.quarter == 1 {
			el = upscaleFrame(el)
		}
		elC = el
		elSub := 0
		if el.Layout == LayoutYUV420 {
			elSub = 1
		}
		if blSub == 0 && elSub == 1 {
			elC = upsampleChroma(el)
		}
		if blSub == 1 && elSub == 0 {
			blC = upsampleChroma(bl)
			sub = 0
		}
	}

	layout := LayoutYUV444
	if sub == 1 {
		layout = LayoutYUV420
	}
	mez := NewFrame(layout, b.width, b.height)
	combineFull(mez, bl.Y(), blC, el.Y(), elC, sub, fr)
	return mez, sub
}
