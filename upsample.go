package dovibake

// UpsampleVertical returns a plane with twice the rows of src.
func UpsampleVertical(src *Plane, k Kernel) *Plane {
	dst := NewPlane(src.Width, src.Height*2)
	upsampleVertical(dst, src, k)
	return dst
}

// UpsampleHorizontal returns a plane with twice the columns of src.
func UpsampleHorizontal(src *Plane, k Kernel) *Plane {
	dst := NewPlane(src.Width*2, src.Height)
	upsampleHorizontal(dst, src, k)
	return dst
}

func upsampleVertical(dst, src *Plane, k Kernel) {
	n := k.Span()
	rows := make([][]uint16, n)
	value := make([]uint16, n)

	for h := 0; h < src.Height; h++ {
		for i := 0; i < n; i++ {
			rows[i] = src.Row(k.tapIndex(i, h, src.Height))
		}
		even := dst.Row(2 * h)
		odd := dst.Row(2*h + 1)
		for w := 0; w < src.Width; w++ {
			for i := 0; i < n; i++ {
				value[i] = rows[i][w]
			}
			even[w] = k.Even(value, k.Before)
			odd[w] = k.Odd(value, k.Before)
		}
	}
}

func upsampleHorizontal(dst, src *Plane, k Kernel) {
	n := k.Span()
	before, after := k.Before, k.After()
	value := make([]uint16, n)

	for h := 0; h < src.Height; h++ {
		row := src.Row(h)
		out := dst.Row(h)
		for w := 0; w < src.Width; w++ {
			var taps []uint16
			if w >= before && w < src.Width-after {
				taps = row[w-before : w+after+1]
			} else {
				for i := 0; i < n; i++ {
					value[i] = row[k.tapIndex(i, w, src.Width)]
				}
				taps = value
			}
			out[2*w] = k.Even(taps, before)
			out[2*w+1] = k.Odd(taps, before)
		}
	}
}

// upscaleFrame doubles every plane of a quarter-resolution frame along both
// axes, keeping its layout.
func upscaleFrame(src *Frame) *Frame {
	out := &Frame{Layout: src.Layout, Props: src.Props.Clone()}
	for i, p := range src.Planes {
		k := ChromaKernel
		if i == 0 {
			k = LumaKernel
		}
		out.Planes[i] = UpsampleHorizontal(UpsampleVertical(p, k), k)
	}
	return out
}

// upsampleChroma returns a 4:4:4 view of src. The luma plane is shared.
func upsampleChroma(src *Frame) *Frame {
	if !src.Layout.Subsampled() {
		return src
	}
	sx, sy := src.Layout.chromaShift()
	out := &Frame{Layout: LayoutYUV444, Props: src.Props.Clone()}
	out.Planes[0] = src.Planes[0]
	for i := 1; i < 3; i++ {
		p := src.Planes[i]
		if sy != 0 {
			p = UpsampleVertical(p, ChromaKernel)
		}
		if sx != 0 {
			p = UpsampleHorizontal(p, ChromaKernel)
		}
		out.Planes[i] = cropPlane(p, src.Width(), src.Height())
	}
	return out
}

// cropPlane narrows p to at most w x h without copying.
func cropPlane(p *Plane, w, h int) *Plane {
	if p.Width <= w && p.Height <= h {
		return p
	}
	out := *p
	if out.Width > w {
		out.Width = w
	}
	if out.Height > h {
		out.Height = h
	}
	return &out
}
