package dovibake

import (
	"fmt"

	"github.com/cnotch/xlog"
)

// Layout identifies the plane arrangement of a frame.
type Layout int

const (
	LayoutYUV444 Layout = iota
	LayoutYUV420
	LayoutYUV422
	LayoutRGB
)

func (l Layout) String() string {
	switch l {
	case LayoutYUV444:
		return "yuv444"
	case LayoutYUV420:
		return "yuv420"
	case LayoutYUV422:
		return "yuv422"
	case LayoutRGB:
		return "rgb"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseLayout maps a layout name ("420", "yuv420", "444", ...) to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "444", "yuv444", "yuv444p16":
		return LayoutYUV444, nil
	case "420", "yuv420", "yuv420p16":
		return LayoutYUV420, nil
	case "422", "yuv422", "yuv422p16":
		return LayoutYUV422, nil
	case "rgb", "rgbp16":
		return LayoutRGB, nil
	}
	return 0, fmt.Errorf("unknown layout %q", s)
}

// chromaShift returns the log2 chroma subsampling factors per axis.
func (l Layout) chromaShift() (sx, sy int) {
	switch l {
	case LayoutYUV420:
		return 1, 1
	case LayoutYUV422:
		return 1, 0
	default:
		return 0, 0
	}
}

// Subsampled reports whether chroma planes are smaller than the luma plane.
func (l Layout) Subsampled() bool {
	sx, sy := l.chromaShift()
	return sx != 0 || sy != 0
}

// Frame property keys attached to output frames.
const (
	PropMatrix         = "_Matrix"
	PropColorRange     = "_ColorRange"
	PropChromaLocation = "_ChromaLocation"
	PropMaxPq          = "_dovi_max_pq"
	PropMaxCLL         = "_dovi_max_content_light_level"
)

// Props holds scalar frame metadata.
type Props map[string]int64

// Clone returns a copy of p, never nil.
func (p Props) Clone() Props {
	out := make(Props, len(p)+4)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ReshapingContext is the per-frame scalar state reported by a Reshaper.
type ReshapingContext struct {
	Initialized          bool
	FullEnhancementLayer bool
	ELProcessingEnabled  bool
	MaxPq                int
	MaxContentLightLevel int
}

// Options controls Baker construction.
type Options struct {
	// FastPath combines BL and EL straight to RGB without intermediate planes.
	FastPath bool
	// OutputYUV returns the normalized YUV frame instead of RGB.
	OutputYUV bool
	// LUTs is an ascending table of tone-mapping LUTs keyed by max CLL.
	LUTs LUTTable
	// Logger defaults to xlog.L().
	Logger *xlog.Logger
}
