package dovibake

// Reshaper supplies per-frame sample mappings derived from reshaping metadata.
type Reshaper interface {
	// FrameCount is the number of frames declared by the metadata.
	FrameCount() int
	// InitializeFrame prepares the mappings for frame n. It returns false
	// when the frame cannot be reconstructed.
	InitializeFrame(n int) (FrameReshaper, bool)
}

// FrameReshaper maps samples of one frame. A value is created per frame and
// never shared between concurrent reconstructions.
type FrameReshaper interface {
	Context() ReshapingContext

	// MapLuma combines co-located BL and EL luma samples.
	MapLuma(bl, el uint16) uint16
	// MapU combines BL and EL U samples. lumaProxy conditions the mapping;
	// blU and blV are the BL chroma pair at the same position.
	MapU(blC, elC, lumaProxy, blU, blV uint16) uint16
	// MapV is MapU for the V plane.
	MapV(blC, elC, lumaProxy, blU, blV uint16) uint16
	// ToRGB converts a reshaped YUV triple to RGB.
	ToRGB(y, u, v uint16) (r, g, b uint16)

	// DisableEL makes all later Map calls ignore the EL arguments.
	DisableEL()
}
