// Package blend implements the pixel arithmetic used to composite keyed
// frames over backgrounds.
//
// All operations work on straight (non-premultiplied) 8-bit RGBA, which is
// the layout of pixel.Buffer.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255Round divides x by 255 rounding to nearest, for x in [0, 255*255].
//
// Formula: (x + 128 + ((x + 128) >> 8)) >> 8
func div255Round(x uint32) uint32 {
	t := x + 128
	return (t + (t >> 8)) >> 8
}

// lerp255 mixes s and d by weight w/255 with rounding:
// (s*w + d*(255-w)) / 255.
func lerp255(s, d, w byte) byte {
	return byte(div255Round(uint32(s)*uint32(w) + uint32(d)*uint32(255-w)))
}
