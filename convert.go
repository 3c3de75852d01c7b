package dovibake

// convertToRGB converts the 4:4:4 planes y, u, v into the RGB frame dst.
// Each plane keeps its own stride.
func convertToRGB(dst *Frame, y, u, v *Plane, fr FrameReshaper) {
	dstR, dstG, dstB := dst.Planes[0], dst.Planes[1], dst.Planes[2]
	for h := 0; h < u.Height; h++ {
		yRow, uRow, vRow := y.Row(h), u.Row(h), v.Row(h)
		rRow, gRow, bRow := dstR.Row(h), dstG.Row(h), dstB.Row(h)
		for w := 0; w < u.Width; w++ {
			rRow[w], gRow[w], bRow[w] = fr.ToRGB(yRow[w], uRow[w], vRow[w])
		}
	}
}
