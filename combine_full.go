package dovibake

// combineFull maps BL and EL planes of identical resolution and chroma
// subsampling into the YUV frame dst.
//
// Luma planes come from blY and elY, chroma planes from blC and elC. With
// sub == 1 chroma is at half resolution per axis, with sub == 0 it matches luma.
func combineFull(dst *Frame, blY *Plane, blC *Frame, elY *Plane, elC *Frame, sub int, fr FrameReshaper) {
	blU, blV := blC.U(), blC.V()
	elU, elV := elC.U(), elC.V()
	dstY, dstU, dstV := dst.Y(), dst.U(), dst.V()
	n := sub + 1

	for huv := 0; huv < blU.Height; huv++ {
		blURow, blVRow := blU.Row(huv), blV.Row(huv)
		elURow, elVRow := elU.Row(huv), elV.Row(huv)
		dstURow, dstVRow := dstU.Row(huv), dstV.Row(huv)

		for wuv := 0; wuv < blU.Width; wuv++ {
			for j := 0; j < n; j++ {
				h := n*huv + j
				blRow, elRow, out := blY.Row(h), elY.Row(h), dstY.Row(h)
				for i := 0; i < n; i++ {
					w := n*wuv + i
					out[w] = fr.MapLuma(blRow[w], elRow[w])
				}
			}

			mmr := mmrBlY(blY, huv, wuv, blU.Width, sub)
			blu, blv := blURow[wuv], blVRow[wuv]
			dstURow[wuv] = fr.MapU(blu, elURow[wuv], mmr, blu, blv)
			dstVRow[wuv] = fr.MapV(blv, elVRow[wuv], mmr, blu, blv)
		}
	}
}

// mmrBlY returns the BL luma used to condition chroma mapping at chroma
// position (wuv, huv). For subsampled chroma it is a 1-2-1 horizontal filter
// over the two luma rows under the chroma sample, averaged with rounding.
// The outermost columns mirror the missing neighbor: [3,1] on the left and
// [1,3] on the right.
func mmrBlY(blY *Plane, huv, wuv, chromaWidth, sub int) uint16 {
	if sub == 0 {
		return blY.Row(huv)[wuv]
	}
	r0, r1 := blY.Row(2*huv), blY.Row(2*huv+1)
	w := 2 * wuv

	var a, b int
	switch {
	case wuv == 0:
		a = 3*int(r0[w]) + int(r0[w+1]) + 2
		b = 3*int(r1[w]) + int(r1[w+1]) + 2
	case wuv == chromaWidth-1:
		a = int(r0[w-1]) + 3*int(r0[w]) + 2
		b = int(r1[w-1]) + 3*int(r1[w]) + 2
	default:
		a = int(r0[w-1]) + 2*int(r0[w]) + int(r0[w+1]) + 2
		b = int(r1[w-1]) + 2*int(r1[w]) + int(r1[w+1]) + 2
	}
	return uint16(((a >> 2) + (b >> 2) + 1) >> 1)
}
