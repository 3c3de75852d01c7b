package dovibake

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func rgbFrame(w, h int) *Frame {
	f := NewFrame(LayoutRGB, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Planes[0].Set(x, y, uint16(x*1000))
			f.Planes[1].Set(x, y, uint16(y*1000))
			f.Planes[2].Set(x, y, 0xabcd)
		}
	}
	return f
}

func TestFrameImage(t *testing.T) {
	img, err := FrameImage(rgbFrame(5, 3))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA64{R: 4000, G: 2000, B: 0xabcd, A: 0xffff}, img.RGBA64At(4, 2))

	_, err = FrameImage(NewFrame(LayoutYUV420, 2, 2))
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestEncodeTIFF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeTIFF(&buf, rgbFrame(7, 4)))

	img, err := tiff.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 7, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())

	r, g, b, _ := img.At(6, 3).RGBA()
	assert.Equal(t, uint32(6000), r)
	assert.Equal(t, uint32(3000), g)
	assert.Equal(t, uint32(0xabcd), b)
}

func TestEncodePreview(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePreview(&buf, rgbFrame(16, 8), 8))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())

	buf.Reset()
	require.NoError(t, EncodePreview(&buf, rgbFrame(6, 2), 8))
	img, err = png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
}

func TestFrame_Meta(t *testing.T) {
	f := rgbFrame(2, 2)
	f.Props = Props{PropMatrix: 0, PropColorRange: 0, PropMaxPq: 3079, PropMaxCLL: 1001}

	data, err := json.Marshal(f.Meta(12))
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":12,"layout":"rgb","width":2,"height":2,"matrix":0,"color_range":0,
		"max_pq":3079,"max_content_light_level":1001}`, string(data))
}
