package dovibake

import "math"

// SMPTE ST 2084 constants.
const (
	pqM1 = 2610.0 / 16384
	pqM2 = 2523.0 / 4096 * 128
	pqC1 = 3424.0 / 4096
	pqC2 = 2413.0 / 4096 * 32
	pqC3 = 2392.0 / 4096 * 32
)

// PQToNits converts a 12-bit PQ code value to absolute luminance in nits.
func PQToNits(code int) float64 {
	if code <= 0 {
		return 0
	}
	if code > pqMaxCode {
		code = pqMaxCode
	}
	e := math.Pow(float64(code)/pqMaxCode, 1/pqM2)
	num := math.Max(e-pqC1, 0)
	return pqMaxNits * math.Pow(num/(pqC2-pqC3*e), 1/pqM1)
}

// NitsToPQ converts absolute luminance in nits to a 12-bit PQ code value.
func NitsToPQ(nits float64) int {
	if nits <= 0 {
		return 0
	}
	y := math.Min(nits/pqMaxNits, 1)
	ym := math.Pow(y, pqM1)
	e := math.Pow((pqC1+pqC2*ym)/(1+pqC3*ym), pqM2)
	return int(math.Round(e * pqMaxCode))
}

func alignUp(n, align int) int {
	if r := n % align; r != 0 {
		return n - r + align
	}
	return n
}
