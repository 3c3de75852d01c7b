package dovibake

import "errors"

var (
	// ErrFrameSkipped is returned when the reshaper cannot initialize a frame.
	// It only affects that frame; later frames may still succeed.
	ErrFrameSkipped = errors.New("reshaper did not initialize frame")

	// ErrBitDepth is returned when a source is not 16-bit.
	ErrBitDepth = errors.New("video must be 16bit")

	// ErrFrameCount is returned when the BL length differs from the metadata length.
	ErrFrameCount = errors.New("clip length does not match length indicated by metadata")

	// ErrMissingEL is returned when the stream carries a full enhancement layer but no EL source is set.
	ErrMissingEL = errors.New("expecting EL clip")

	// ErrGeometry is returned when plane dimensions do not relate as required.
	ErrGeometry = errors.New("invalid plane geometry")

	// ErrConfig is returned for unsupported option combinations.
	ErrConfig = errors.New("invalid configuration")

	// ErrLUT is returned when a tone-mapping LUT cannot be loaded.
	ErrLUT = errors.New("cannot load LUT")
)
