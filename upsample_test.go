package dovibake

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsample_constantPlane(t *testing.T) {
	for _, k := range []Kernel{LumaKernel, ChromaKernel} {
		for _, size := range [][2]int{{1, 1}, {2, 3}, {7, 5}, {64, 33}} {
			src := NewPlane(size[0], size[1])
			src.Fill(40000)

			v := UpsampleVertical(src, k)
			require.Equal(t, size[0], v.Width)
			require.Equal(t, size[1]*2, v.Height)

			h := UpsampleHorizontal(v, k)
			require.Equal(t, size[0]*2, h.Width)
			require.Equal(t, size[1]*2, h.Height)

			for y := 0; y < h.Height; y++ {
				for x, s := range h.Row(y) {
					if s != 40000 {
						t.Fatalf("%s %dx%d: sample (%d,%d) = %d", k.Name, size[0], size[1], x, y, s)
					}
				}
			}
		}
	}
}

func TestUpsampleHorizontal_ramp(t *testing.T) {
	src := NewPlane(8, 1)
	for x := range src.Pix {
		src.Pix[x] = uint16(1000 + 100*x)
	}

	dst := UpsampleHorizontal(src, LumaKernel)
	row := dst.Row(0)

	// Interior samples reproduce the ramp: even outputs are co-sited and
	// odd outputs fall halfway between neighbors.
	for x := 2; x < 5; x++ {
		assert.Equal(t, src.Pix[x], row[2*x], "even %d", x)
		assert.Equal(t, src.Pix[x]+50, row[2*x+1], "odd %d", x)
	}
}

func TestUpsample_stride(t *testing.T) {
	src := NewPlaneStride(3, 2, 8)
	for i := range src.Pix {
		src.Pix[i] = 0xffff // padding must never be read
	}
	src.Fill(1234)

	for _, k := range []Kernel{LumaKernel, ChromaKernel} {
		out := UpsampleHorizontal(UpsampleVertical(src, k), k)
		for y := 0; y < out.Height; y++ {
			for _, s := range out.Row(y) {
				assert.Equal(t, uint16(1234), s)
			}
		}
	}
}

func TestKernel_tapIndex(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, k := range []Kernel{LumaKernel, ChromaKernel} {
		for iter := 0; iter < 200; iter++ {
			n := 1 + rnd.Intn(40)
			for pos := 0; pos < n; pos++ {
				prev := -1
				for i := 0; i < k.Span(); i++ {
					idx := k.tapIndex(i, pos, n)
					require.True(t, idx >= 0 && idx < n, "%s: tap %d of %d/%d is %d", k.Name, i, pos, n, idx)
					require.GreaterOrEqual(t, idx, prev)
					prev = idx
				}
				assert.Equal(t, pos, k.tapIndex(k.Before, pos, n))
			}
		}
	}
}

func TestUpsampleChroma(t *testing.T) {
	for _, l := range []Layout{LayoutYUV420, LayoutYUV422} {
		f := NewFrame(l, 6, 4)
		f.Y().Fill(100)
		f.U().Fill(200)
		f.V().Fill(300)

		out := upsampleChroma(f)
		require.Equal(t, LayoutYUV444, out.Layout)
		require.NoError(t, out.checkLayout())
		assert.Same(t, f.Y(), out.Y())
		assert.Equal(t, uint16(200), out.U().At(5, 3))
		assert.Equal(t, uint16(300), out.V().At(0, 0))
	}

	f := NewFrame(LayoutYUV444, 2, 2)
	assert.Same(t, f, upsampleChroma(f))
}

func TestUpscaleFrame(t *testing.T) {
	f := NewFrame(LayoutYUV420, 4, 2)
	f.Y().Fill(10)
	f.U().Fill(20)
	f.V().Fill(30)

	out := upscaleFrame(f)
	assert.Equal(t, LayoutYUV420, out.Layout)
	assert.Equal(t, 8, out.Width())
	assert.Equal(t, 4, out.Height())
	require.NoError(t, out.checkLayout())
	assert.Equal(t, uint16(10), out.Y().At(7, 3))
	assert.Equal(t, uint16(20), out.U().At(3, 1))
}
