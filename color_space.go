package dovibake

import (
	"fmt"
	"math"
)

// ColorMatrix identifies the YCbCr to RGB matrix of a StaticReshaper.
type ColorMatrix int

const (
	MatrixBT2020 ColorMatrix = iota
	MatrixBT709
)

// ParseColorMatrix maps "2020" / "bt2020" / "709" / "bt709" to a ColorMatrix.
func ParseColorMatrix(s string) (ColorMatrix, error) {
	switch s {
	case "2020", "bt2020", "bt2020nc", "":
		return MatrixBT2020, nil
	case "709", "bt709":
		return MatrixBT709, nil
	}
	return 0, fmt.Errorf("unknown color matrix %q", s)
}

func (m ColorMatrix) propValue() int64 {
	if m == MatrixBT709 {
		return propMatrixBT709
	}
	return propMatrixBT2020
}

// yccToRGB holds the non-trivial coefficients of a YCbCr to RGB matrix.
type yccToRGB struct {
	crR, cbG, crG, cbB float64
	limited           bool
}

func newYccToRGB(m ColorMatrix, limited bool) yccToRGB {
	kr, kb := 0.2627, 0.0593
	if m == MatrixBT709 {
		kr, kb = 0.2126, 0.0722
	}
	kg := 1 - kr - kb
	return yccToRGB{
		crR:     2 - 2*kr,
		cbG:     -kb * (2 - 2*kb) / kg,
		crG:     -kr * (2 - 2*kr) / kg,
		cbB:     2 - 2*kb,
		limited: limited,
	}
}

func (c yccToRGB) convert(y, u, v uint16) (r, g, b uint16) {
	fy := float64(y)
	fu := float64(u) - midSample
	fv := float64(v) - midSample
	if c.limited {
		fy = (fy - 16*256) * maxSample / (219 * 256)
		fu = fu * maxSample / (224 * 256)
		fv = fv * maxSample / (224 * 256)
	}
	return toSample(fy + c.crR*fv),
		toSample(fy + c.cbG*fu + c.crG*fv),
		toSample(fy + c.cbB*fu)
}

func toSample(v float64) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= maxSample {
		return maxSample
	}
	return uint16(math.Round(v))
}

// SourceProps returns the frame properties describing YCbCr input encoded
// with matrix m.
func SourceProps(m ColorMatrix, limited bool) Props {
	p := Props{
		PropMatrix:         m.propValue(),
		PropColorRange:     propRangeFull,
		PropChromaLocation: 0,
	}
	if limited {
		p[PropColorRange] = propRangeLimited
	}
	return p
}
