package blend

// SourceOver composites a straight-alpha source pixel over a straight-alpha
// destination pixel.
//
// With an opaque destination this is
//
//	out = S*Sa/255 + D*(255-Sa)/255, alpha 255
//
// Otherwise the general Porter-Duff formula is used:
//
//	outA = Sa + Da*(1-Sa)
//	outC = (S*Sa + D*Da*(1-Sa)) / outA
func SourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte) {
	switch {
	case sa == 0:
		return dr, dg, db, da
	case sa == 255:
		return sr, sg, sb, 255
	case da == 255:
		return lerp255(sr, dr, sa), lerp255(sg, dg, sa), lerp255(sb, db, sa), 255
	case da == 0:
		return sr, sg, sb, sa
	}

	// Scaled by 255: den = 255*outA.
	invSa := uint32(255 - sa)
	ws := uint32(sa) * 255
	wd := uint32(da) * invSa
	den := ws + wd

	r = byte((uint32(sr)*ws + uint32(dr)*wd + den/2) / den)
	g = byte((uint32(sg)*ws + uint32(dg)*wd + den/2) / den)
	b = byte((uint32(sb)*ws + uint32(db)*wd + den/2) / den)
	a = byte(div255Round(den))
	return r, g, b, a
}

// SourceOverRow composites n pixels of src over dst in place.
// Both slices hold interleaved RGBA and must be at least n*4 bytes long.
func SourceOverRow(dst, src []byte, n int) {
	dst = dst[:n*4]
	src = src[:n*4]
	for i := 0; i < len(dst); i += 4 {
		sa := src[i+3]
		switch sa {
		case 0:
			continue
		case 255:
			dst[i+0] = src[i+0]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+2]
			dst[i+3] = 255
			continue
		}
		dst[i+0], dst[i+1], dst[i+2], dst[i+3] = SourceOver(
			src[i+0], src[i+1], src[i+2], sa,
			dst[i+0], dst[i+1], dst[i+2], dst[i+3])
	}
}
