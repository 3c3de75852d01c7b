package dovibake

import "fmt"

// Plane is a 2D grid of 16-bit samples. Stride is in samples and may exceed Width.
type Plane struct {
	Width  int
	Height int
	Stride int
	Pix    []uint16
}

// NewPlane allocates a zeroed w x h plane with Stride == w.
func NewPlane(w, h int) *Plane {
	return &Plane{Width: w, Height: h, Stride: w, Pix: make([]uint16, w*h)}
}

// NewPlaneStride allocates a zeroed plane with the given row stride.
func NewPlaneStride(w, h, stride int) *Plane {
	if stride < w {
		stride = w
	}
	return &Plane{Width: w, Height: h, Stride: stride, Pix: make([]uint16, stride*h)}
}

// Row returns the visible samples of row y.
func (p *Plane) Row(y int) []uint16 {
	off := y * p.Stride
	return p.Pix[off : off+p.Width : off+p.Width]
}

// At returns the sample at (x, y). It panics when the position is outside the plane.
func (p *Plane) At(x, y int) uint16 {
	p.check(x, y)
	return p.Pix[y*p.Stride+x]
}

// Set stores v at (x, y). It panics when the position is outside the plane.
func (p *Plane) Set(x, y int, v uint16) {
	p.check(x, y)
	p.Pix[y*p.Stride+x] = v
}

// Fill sets every visible sample to v.
func (p *Plane) Fill(v uint16) {
	for y := 0; y < p.Height; y++ {
		row := p.Row(y)
		for x := range row {
			row[x] = v
		}
	}
}

// Clone returns a tightly packed copy of p.
func (p *Plane) Clone() *Plane {
	out := NewPlane(p.Width, p.Height)
	for y := 0; y < p.Height; y++ {
		copy(out.Row(y), p.Row(y))
	}
	return out
}

func (p *Plane) check(x, y int) {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		panic(fmt.Sprintf("dovibake: sample (%d,%d) outside %dx%d plane", x, y, p.Width, p.Height))
	}
}

// Frame is an ordered set of planes under one layout. For YUV layouts the
// planes are Y, U, V; for LayoutRGB they are R, G, B.
type Frame struct {
	Layout Layout
	Planes [3]*Plane
	Props  Props
}

// NewFrame allocates a frame whose luma (or R) plane is w x h.
func NewFrame(layout Layout, w, h int) *Frame {
	sx, sy := layout.chromaShift()
	cw, ch := (w+(1<<sx)-1)>>sx, (h+(1<<sy)-1)>>sy
	return &Frame{
		Layout: layout,
		Planes: [3]*Plane{NewPlane(w, h), NewPlane(cw, ch), NewPlane(cw, ch)},
		Props:  Props{},
	}
}

// Width is the width of the luma plane.
func (f *Frame) Width() int { return f.Planes[0].Width }

// Height is the height of the luma plane.
func (f *Frame) Height() int { return f.Planes[0].Height }

// Y returns the luma (or R) plane.
func (f *Frame) Y() *Plane { return f.Planes[0] }

// U returns the first chroma (or G) plane.
func (f *Frame) U() *Plane { return f.Planes[1] }

// V returns the second chroma (or B) plane.
func (f *Frame) V() *Plane { return f.Planes[2] }

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	out := &Frame{Layout: f.Layout, Props: f.Props.Clone()}
	for i, p := range f.Planes {
		out.Planes[i] = p.Clone()
	}
	return out
}

// checkLayout verifies that the chroma planes match the layout for the luma size.
func (f *Frame) checkLayout() error {
	if f.Planes[0] == nil || f.Planes[1] == nil || f.Planes[2] == nil {
		return fmt.Errorf("%w: frame has missing planes", ErrGeometry)
	}
	sx, sy := f.Layout.chromaShift()
	w, h := f.Width(), f.Height()
	cw, ch := (w+(1<<sx)-1)>>sx, (h+(1<<sy)-1)>>sy
	for i := 1; i < 3; i++ {
		p := f.Planes[i]
		if p.Width != cw || p.Height != ch {
			return fmt.Errorf("%w: %s plane %d is %dx%d, want %dx%d", ErrGeometry, f.Layout, i, p.Width, p.Height, cw, ch)
		}
	}
	return nil
}
