package dovibake

// layerGeometry holds log2 resolution relations between BL and EL planes.
type layerGeometry struct {
	blSub   int // BL chroma is subsampled 2x per axis
	elSub   int // EL chroma is subsampled 2x per axis
	quarter int // EL luma is half the BL luma size per axis
}

// combineFast maps BL and EL straight into the RGB frame dst.
//
// It walks the EL chroma grid. Each EL chroma sample overlaps one or more BL
// chroma samples; chroma is mapped once per overlapping BL chroma sample using
// the raw BL luma at its top-left position as conditioning input, then every
// BL luma sample under the cell is mapped and converted to RGB.
func combineFast(dst, bl, el *Frame, g layerGeometry, fr FrameReshaper) {
	elYShift := g.elSub + g.quarter
	// BL chroma samples per EL chroma sample, per axis (log2).
	fanOut := elYShift - g.blSub
	// EL chroma samples per BL chroma sample, per axis (log2).
	fanIn := 0
	if fanOut < 0 {
		fanIn, fanOut = -fanOut, 0
	}
	lumaShift := g.blSub
	if elYShift < lumaShift {
		lumaShift = elYShift
	}
	lumaCount := 1 << lumaShift

	blY, blU, blV := bl.Y(), bl.U(), bl.V()
	elY, elU, elV := el.Y(), el.U(), el.V()
	dstR, dstG, dstB := dst.Planes[0], dst.Planes[1], dst.Planes[2]

	for heluv := 0; heluv < elU.Height; heluv++ {
		elURow, elVRow := elU.Row(heluv), elV.Row(heluv)
		for weluv := 0; weluv < elU.Width; weluv++ {
			elu, elv := elURow[weluv], elVRow[weluv]

			for hD := 0; hD < 1<<fanOut; hD++ {
				hbluv := ((heluv << fanOut) + hD) >> fanIn
				for wD := 0; wD < 1<<fanOut; wD++ {
					wbluv := ((weluv << fanOut) + wD) >> fanIn
					blu := blU.Pix[hbluv*blU.Stride+wbluv]
					blv := blV.Pix[hbluv*blV.Stride+wbluv]

					mmrBlY := blY.Pix[(hbluv<<g.blSub)*blY.Stride+(wbluv<<g.blSub)]
					u := fr.MapU(blu, elu, mmrBlY, blu, blv)
					v := fr.MapV(blv, elv, mmrBlY, blu, blv)

					y0 := (heluv << elYShift) + (hD << g.blSub)
					x0 := (weluv << elYShift) + (wD << g.blSub)
					for dy := 0; dy < lumaCount; dy++ {
						y := y0 + dy
						blYRow := blY.Row(y)
						elYRow := elY.Row(y >> g.quarter)
						rRow, gRow, bRow := dstR.Row(y), dstG.Row(y), dstB.Row(y)
						for dx := 0; dx < lumaCount; dx++ {
							x := x0 + dx
							luma := fr.MapLuma(blYRow[x], elYRow[x>>g.quarter])
							rRow[x], gRow[x], bRow[x] = fr.ToRGB(luma, u, v)
						}
					}
				}
			}
		}
	}
}
