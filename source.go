package dovibake

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Source produces planar 16-bit frames of one layer.
type Source interface {
	FrameCount() int
	BitDepth() int
	Layout() Layout
	// Size is the luma plane size.
	Size() (w, h int)
	Frame(n int) (*Frame, error)
}

// MemorySource serves frames held in memory.
type MemorySource struct {
	Frames []*Frame
}

// NewMemorySource wraps frames, which must share layout and size.
func NewMemorySource(frames ...*Frame) *MemorySource {
	return &MemorySource{Frames: frames}
}

func (m *MemorySource) FrameCount() int { return len(m.Frames) }

func (m *MemorySource) BitDepth() int { return containerBitDepth }

func (m *MemorySource) Layout() Layout {
	if len(m.Frames) == 0 {
		return LayoutYUV420
	}
	return m.Frames[0].Layout
}

func (m *MemorySource) Size() (w, h int) {
	if len(m.Frames) == 0 {
		return 0, 0
	}
	return m.Frames[0].Width(), m.Frames[0].Height()
}

func (m *MemorySource) Frame(n int) (*Frame, error) {
	if n < 0 || n >= len(m.Frames) {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", n, len(m.Frames))
	}
	return m.Frames[n], nil
}

// RawSource reads planar little-endian 16-bit frames (.yuv files) from an io.ReaderAt.
// It is safe for concurrent use when the underlying reader is.
type RawSource struct {
	r          io.ReaderAt
	layout     Layout
	width      int
	height     int
	frameBytes int64
	frames     int
	props      Props
}

// NewRawSource creates a RawSource over size bytes of r.
func NewRawSource(r io.ReaderAt, size int64, width, height int, layout Layout) (*RawSource, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid frame dimensions")
	}
	if layout == LayoutRGB {
		return nil, fmt.Errorf("%w: raw sources must be YUV", ErrConfig)
	}
	f := NewFrame(layout, width, height)
	samples := 0
	for _, p := range f.Planes {
		samples += p.Width * p.Height
	}
	frameBytes := int64(samples) * 2
	if size%frameBytes != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d byte %dx%d %s frame",
			ErrGeometry, size, frameBytes, width, height, layout)
	}
	return &RawSource{
		r:          r,
		layout:     layout,
		width:      width,
		height:     height,
		frameBytes: frameBytes,
		frames:     int(size / frameBytes),
	}, nil
}

// SetProps sets the metadata attached to every frame read afterwards.
func (s *RawSource) SetProps(p Props) { s.props = p.Clone() }

func (s *RawSource) FrameCount() int { return s.frames }

func (s *RawSource) BitDepth() int { return containerBitDepth }

func (s *RawSource) Layout() Layout { return s.layout }

func (s *RawSource) Size() (w, h int) { return s.width, s.height }

// Frame reads frame n.
func (s *RawSource) Frame(n int) (*Frame, error) {
	if n < 0 || n >= s.frames {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", n, s.frames)
	}
	buf := make([]byte, s.frameBytes)
	if _, err := s.r.ReadAt(buf, int64(n)*s.frameBytes); err != nil {
		return nil, fmt.Errorf("read frame %d: %w", n, err)
	}
	f := NewFrame(s.layout, s.width, s.height)
	f.Props = s.props.Clone()
	off := 0
	for _, p := range f.Planes {
		for i := range p.Pix {
			p.Pix[i] = binary.LittleEndian.Uint16(buf[off:])
			off += 2
		}
	}
	return f, nil
}

// WriteRaw writes the planes of f as planar little-endian 16-bit samples.
func WriteRaw(w io.Writer, f *Frame) error {
	for _, p := range f.Planes {
		row := make([]byte, p.Width*2)
		for y := 0; y < p.Height; y++ {
			for x, v := range p.Row(y) {
				binary.LittleEndian.PutUint16(row[x*2:], v)
			}
			if _, err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
