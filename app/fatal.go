package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"pz/hal"
	"pz/script"
	"pz/sprite"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// showFatal paints the fatal error onto the framebuffer and presents it so
// that the last frame the user sees explains the exit.
func showFatal(h hal.HAL, fe *script.FatalError) {
	fb := h.Framebuffer()
	if fb == nil {
		return
	}

	lines := []string{
		"pz fatal error:",
		fmt.Sprintf("%v", fe.Value),
	}
	if len(fe.Stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(fe.Stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	drawLines(img, lines)

	fb.Lock()
	blitRGBA(fb, img)
	fb.Unlock()
	_ = fb.Present()
}

// drawLines writes lines top to bottom with the 7x13 basic font, wrapping
// at the image width and stopping at the bottom edge.
func drawLines(img *image.RGBA, lines []string) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	cols := img.Bounds().Dx() / face.Advance
	if cols <= 0 {
		return
	}
	lineH := face.Height
	y := face.Ascent
	for _, line := range lines {
		for {
			if y+face.Descent > img.Bounds().Dy() {
				return
			}
			chunk, rest := takeRunes(line, cols)
			d.Dot = fixed.P(0, y)
			d.DrawString(chunk)
			y += lineH
			if rest == "" {
				break
			}
			line = strings.TrimLeft(rest, " ")
		}
	}
}

// blitRGBA converts img to RGB565 cells. The caller holds fb's lock.
func blitRGBA(fb hal.Framebuffer, img *image.RGBA) {
	pix := fb.Pixels()
	stride := fb.Stride()
	b := img.Bounds()
	for y := 0; y < b.Dy() && y < fb.Height(); y++ {
		for x := 0; x < b.Dx() && x < fb.Width(); x++ {
			off := img.PixOffset(x, y)
			c := sprite.RGB(img.Pix[off], img.Pix[off+1], img.Pix[off+2])
			pix[y*stride+x] = uint16(c)
		}
	}
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	r := []rune(s)
	if len(r) <= n {
		return s, ""
	}
	return string(r[:n]), string(r[n:])
}
