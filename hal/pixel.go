package hal

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// expandRGB565 converts a row-major RGB565 buffer with the given stride
// (in cells) into tightly packed RGBA bytes.
func expandRGB565(dst []byte, src []uint16, width, height, stride int) {
	for y := 0; y < height; y++ {
		row := src[y*stride:]
		out := dst[y*width*4:]
		for x := 0; x < width; x++ {
			r, g, b := rgb888From565(row[x])
			j := x * 4
			out[j+0] = r
			out[j+1] = g
			out[j+2] = b
			out[j+3] = 0xFF
		}
	}
}
