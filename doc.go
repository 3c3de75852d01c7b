// Package dovibake reconstructs HDR video frames from a base layer (BL) and an
// enhancement layer (EL) guided by per-frame reshaping metadata.
//
// This is a pragmatic implementation focused on bit-reproducible output rather
// than throughput. Planes are plain 16-bit slices, filters are fixed-point, and
// every frame is a pure function of its inputs so a host may request frames
// concurrently.
package dovibake
