package dovibake

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmrBlY(t *testing.T) {
	y := NewPlane(8, 2)
	for x := 0; x < 8; x++ {
		y.Set(x, 0, uint16(10+10*x))
		y.Set(x, 1, uint16(15+10*x))
	}

	var got []uint16
	for wuv := 0; wuv < 4; wuv++ {
		got = append(got, mmrBlY(y, 0, wuv, 4, 1))
	}
	assert.Equal(t, []uint16{16, 33, 53, 71}, got)

	// Without subsampling the co-located sample is used as is.
	assert.Equal(t, uint16(25), mmrBlY(y, 1, 1, 8, 0))
}

func TestMmrBlY_singleColumn(t *testing.T) {
	y := NewPlane(2, 2)
	y.Pix = []uint16{100, 200, 300, 400}

	// (3*100+200+2)>>2 = 125, (3*300+400+2)>>2 = 325.
	assert.Equal(t, uint16(225), mmrBlY(y, 0, 0, 1, 1))
}

func TestCombineFull_passThrough(t *testing.T) {
	bl := NewFrame(LayoutYUV420, 6, 4)
	for i := range bl.Y().Pix {
		bl.Y().Pix[i] = uint16(i * 300)
	}
	bl.U().Fill(midSample - 100)
	bl.V().Fill(midSample + 100)

	fr, ok := (&StaticReshaper{Frames: 1}).InitializeFrame(0)
	require.True(t, ok)

	dst := NewFrame(LayoutYUV420, 6, 4)
	combineFull(dst, bl.Y(), bl, bl.Y(), bl, 1, fr)

	assert.Equal(t, bl.Y().Pix, dst.Y().Pix)
	assert.Equal(t, bl.U().Pix, dst.U().Pix)
	assert.Equal(t, bl.V().Pix, dst.V().Pix)
}

func TestCombineFull_residual(t *testing.T) {
	bl := NewFrame(LayoutYUV444, 2, 2)
	bl.Y().Fill(30000)
	bl.U().Fill(midSample)
	bl.V().Fill(midSample)

	el := NewFrame(LayoutYUV444, 2, 2)
	el.Y().Fill(midSample + 1000)
	el.U().Fill(midSample - 10)
	el.V().Fill(midSample + 10)

	fr, ok := (&StaticReshaper{Frames: 1, FEL: true}).InitializeFrame(0)
	require.True(t, ok)

	dst := NewFrame(LayoutYUV444, 2, 2)
	combineFull(dst, bl.Y(), bl, el.Y(), el, 0, fr)
	assert.Equal(t, uint16(31000), dst.Y().At(1, 1))
	assert.Equal(t, uint16(midSample-10), dst.U().At(0, 1))
	assert.Equal(t, uint16(midSample+10), dst.V().At(1, 0))

	fr.DisableEL()
	combineFull(dst, bl.Y(), bl, el.Y(), el, 0, fr)
	assert.Equal(t, uint16(30000), dst.Y().At(1, 1))
	assert.Equal(t, uint16(midSample), dst.U().At(0, 1))
}

func TestCombineFast_geometries(t *testing.T) {
	const w, h = 8, 8

	for _, g := range []layerGeometry{
		{0, 0, 0}, {1, 1, 0}, {0, 1, 0}, {1, 0, 0},
		{0, 0, 1}, {1, 1, 1}, {0, 1, 1}, {1, 0, 1},
	} {
		blLayout, elLayout := LayoutYUV444, LayoutYUV444
		if g.blSub == 1 {
			blLayout = LayoutYUV420
		}
		if g.elSub == 1 {
			elLayout = LayoutYUV420
		}
		bl := NewFrame(blLayout, w, h)
		for i := range bl.Y().Pix {
			bl.Y().Pix[i] = uint16(i * 1000)
		}
		bl.U().Fill(midSample)
		bl.V().Fill(midSample)

		el := NewFrame(elLayout, w>>g.quarter, h>>g.quarter)
		el.Y().Fill(midSample + 5)
		el.U().Fill(midSample)
		el.V().Fill(midSample)

		fr, ok := (&StaticReshaper{Frames: 1, FEL: true}).InitializeFrame(0)
		require.True(t, ok)

		dst := NewFrame(LayoutRGB, w, h)
		for _, p := range dst.Planes {
			p.Fill(1)
		}
		combineFast(dst, bl, el, g, fr)

		for i, v := range bl.Y().Pix {
			want := v + 5
			require.Equal(t, want, dst.Planes[0].Pix[i], "%+v: R at %d", g, i)
			require.Equal(t, want, dst.Planes[1].Pix[i], "%+v: G at %d", g, i)
			require.Equal(t, want, dst.Planes[2].Pix[i], "%+v: B at %d", g, i)
		}
	}
}

// chromaRecorder passes luma through, returns the conditioning luma as the
// mapped chroma and remembers the arguments of every chroma call.
type chromaRecorder struct {
	mu   sync.Mutex
	u, v [][5]uint16
}

func (r *chromaRecorder) Context() ReshapingContext { return ReshapingContext{Initialized: true} }

func (r *chromaRecorder) DisableEL() {}

func (r *chromaRecorder) MapLuma(bl, _ uint16) uint16 { return bl }

func (r *chromaRecorder) MapU(blC, elC, lumaProxy, blU, blV uint16) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.u = append(r.u, [5]uint16{blC, elC, lumaProxy, blU, blV})
	return lumaProxy
}

func (r *chromaRecorder) MapV(blC, elC, lumaProxy, blU, blV uint16) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.v = append(r.v, [5]uint16{blC, elC, lumaProxy, blU, blV})
	return lumaProxy
}

func (r *chromaRecorder) ToRGB(y, u, v uint16) (uint16, uint16, uint16) { return y, u, v }

func chromaLayers(l Layout) (bl, el *Frame) {
	bl = NewFrame(l, 2, 2)
	bl.Y().Pix = []uint16{1000, 2000, 3000, 4000}
	bl.U().Fill(111)
	bl.V().Fill(222)

	el = NewFrame(l, 2, 2)
	el.Y().Fill(midSample)
	el.U().Fill(333)
	el.V().Fill(444)
	return bl, el
}

func TestCombineFull_chromaConditioning(t *testing.T) {
	t.Run("subsampled", func(t *testing.T) {
		bl, el := chromaLayers(LayoutYUV420)
		rec := &chromaRecorder{}

		dst := NewFrame(LayoutYUV420, 2, 2)
		combineFull(dst, bl.Y(), bl, el.Y(), el, 1, rec)

		// (3*1000+2000+2)>>2 = 1250, (3*3000+4000+2)>>2 = 3250, averaged to 2250.
		assert.Equal(t, [][5]uint16{{111, 333, 2250, 111, 222}}, rec.u)
		assert.Equal(t, [][5]uint16{{222, 444, 2250, 111, 222}}, rec.v)
		assert.Equal(t, uint16(2250), dst.U().At(0, 0))
		assert.Equal(t, bl.Y().Pix, dst.Y().Pix)
	})

	t.Run("full chroma", func(t *testing.T) {
		bl, el := chromaLayers(LayoutYUV444)
		bl.U().Pix = []uint16{10, 20, 30, 40}
		bl.V().Pix = []uint16{50, 60, 70, 80}
		rec := &chromaRecorder{}

		dst := NewFrame(LayoutYUV444, 2, 2)
		combineFull(dst, bl.Y(), bl, el.Y(), el, 0, rec)

		assert.Equal(t, bl.Y().Pix, dst.U().Pix)
		assert.Equal(t, bl.Y().Pix, dst.V().Pix)
		require.Len(t, rec.u, 4)
		assert.Equal(t, [5]uint16{30, 333, 3000, 30, 70}, rec.u[2])
		assert.Equal(t, [5]uint16{80, 444, 4000, 40, 80}, rec.v[3])
	})
}

func TestCombineFast_chromaConditioning(t *testing.T) {
	bl, el := chromaLayers(LayoutYUV420)
	rec := &chromaRecorder{}

	dst := NewFrame(LayoutRGB, 2, 2)
	combineFast(dst, bl, el, layerGeometry{blSub: 1, elSub: 1}, rec)

	// The raw top-left BL luma of the cell conditions chroma.
	assert.Equal(t, [][5]uint16{{111, 333, 1000, 111, 222}}, rec.u)
	assert.Equal(t, [][5]uint16{{222, 444, 1000, 111, 222}}, rec.v)
	assert.Equal(t, []uint16{1000, 1000, 1000, 1000}, dst.Planes[1].Pix)
	assert.Equal(t, bl.Y().Pix, dst.Planes[0].Pix)
}
