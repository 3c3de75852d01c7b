package dovibake

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/nfnt/resize"
	"golang.org/x/image/tiff"
)

// FrameImage converts an RGB frame to an opaque *image.RGBA64.
func FrameImage(f *Frame) (*image.RGBA64, error) {
	if f == nil {
		return nil, errors.New("nil frame")
	}
	if f.Layout != LayoutRGB {
		return nil, fmt.Errorf("%w: image export needs an RGB frame, got %s", ErrConfig, f.Layout)
	}
	w, h := f.Width(), f.Height()
	img := image.NewRGBA64(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		r, g, b := f.Planes[0].Row(y), f.Planes[1].Row(y), f.Planes[2].Row(y)
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			off := x * 8
			row[off+0] = uint8(r[x] >> 8)
			row[off+1] = uint8(r[x])
			row[off+2] = uint8(g[x] >> 8)
			row[off+3] = uint8(g[x])
			row[off+4] = uint8(b[x] >> 8)
			row[off+5] = uint8(b[x])
			row[off+6] = 0xff
			row[off+7] = 0xff
		}
	}
	return img, nil
}

// EncodeTIFF writes an RGB frame as a 16-bit deflate-compressed TIFF.
func EncodeTIFF(w io.Writer, f *Frame) error {
	img, err := FrameImage(f)
	if err != nil {
		return err
	}
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// EncodePreview writes an RGB frame as a PNG no wider than maxWidth.
func EncodePreview(w io.Writer, f *Frame, maxWidth uint) error {
	img, err := FrameImage(f)
	if err != nil {
		return err
	}
	var out image.Image = img
	if maxWidth > 0 && uint(f.Width()) > maxWidth {
		out = resize.Resize(maxWidth, 0, img, resize.Lanczos3)
	}
	return png.Encode(w, out)
}

// FrameMeta is the JSON form of the metadata attached to an output frame.
type FrameMeta struct {
	Index                int    `json:"index"`
	Layout               string `json:"layout"`
	Width                int    `json:"width"`
	Height               int    `json:"height"`
	Matrix               *int64 `json:"matrix,omitempty"`
	ColorRange           *int64 `json:"color_range,omitempty"`
	ChromaLocation       *int64 `json:"chroma_location,omitempty"`
	MaxPq                int64  `json:"max_pq"`
	MaxContentLightLevel int64  `json:"max_content_light_level"`
}

// Meta returns the metadata of frame n.
func (f *Frame) Meta(n int) FrameMeta {
	m := FrameMeta{
		Index:                n,
		Layout:               f.Layout.String(),
		Width:                f.Width(),
		Height:               f.Height(),
		MaxPq:                f.Props[PropMaxPq],
		MaxContentLightLevel: f.Props[PropMaxCLL],
	}
	if v, ok := f.Props[PropMatrix]; ok {
		m.Matrix = &v
	}
	if v, ok := f.Props[PropColorRange]; ok {
		m.ColorRange = &v
	}
	if v, ok := f.Props[PropChromaLocation]; ok {
		m.ChromaLocation = &v
	}
	return m
}
