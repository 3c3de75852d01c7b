package dovibake

const (
	containerBitDepth = 16
	maxSample         = 1<<containerBitDepth - 1
	midSample         = 1 << (containerBitDepth - 1)
)

const (
	pqMaxNits = 10000.0
	pqMaxCode = 4095
)

// lutAlign is the sample alignment of LUT staging rows.
const lutAlign = 8

const (
	propMatrixRGB    = 0
	propRangeFull    = 0
	propRangeLimited = 1
	propMatrixBT709  = 1
	propMatrixBT2020 = 9
	defaultMaxPq     = pqMaxCode
)
