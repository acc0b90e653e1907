package sprite

import "sync"

// Surface is a display buffer owned elsewhere: RGB565 cells, Stride cells
// per row, guarded by its own lock.
type Surface interface {
	sync.Locker
	Width() int
	Height() int
	Stride() int
	Pixels() []uint16
}

// Blit copies the non-Transparent pixels of src onto dst with src's
// top-left corner at (x, y). The copy is clipped to dst; a source that
// lies entirely outside dst touches nothing.
func (s *Store) Blit(dst, src Handle, x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.mustLookup(dst)
	if err != nil {
		return err
	}
	sp, err := s.mustLookup(src)
	if err != nil {
		return err
	}
	blit(d, sp, x, y)
	return nil
}

// blit clips [startR,endR)×[startC,endC) in source coordinates so that
// every destination cell lands inside d.
func blit(d, src *Sprite, x, y int) {
	startR, startC := 0, 0
	endR, endC := src.Height, src.Width
	if x < 0 {
		startC = -x
	}
	if y < 0 {
		startR = -y
	}
	if endR+y > d.Height {
		endR = d.Height - y
	}
	if endC+x > d.Width {
		endC = d.Width - x
	}

	for r := startR; r < endR; r++ {
		srow := src.Pix[r*src.Width : (r+1)*src.Width]
		drow := d.Pix[(r+y)*d.Width : (r+y+1)*d.Width]
		for c := startC; c < endC; c++ {
			if p := srow[c]; p != Transparent {
				drow[c+x] = p
			}
		}
	}
}

// Render copies a sprite verbatim, Transparent cells included, into fb
// starting at (0, 0), one row per framebuffer stride. Rows and columns
// beyond the framebuffer are dropped; framebuffer cells right of the
// sprite are left alone.
//
// Lock order: the store lock is always taken before the framebuffer lock.
func (s *Store) Render(h Handle, fb Surface) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, err := s.mustLookup(h)
	if err != nil {
		return err
	}

	fb.Lock()
	defer fb.Unlock()

	pix := fb.Pixels()
	stride := fb.Stride()
	rows := min(sp.Height, fb.Height())
	cols := min(sp.Width, fb.Width())
	for r := 0; r < rows; r++ {
		src := sp.Pix[r*sp.Width : r*sp.Width+cols]
		dst := pix[r*stride : r*stride+cols]
		for c, p := range src {
			dst[c] = uint16(p)
		}
	}
	return nil
}

// FillScreen paints the whole visible framebuffer area. It takes only the
// framebuffer lock.
func FillScreen(fb Surface, c Color) {
	fb.Lock()
	defer fb.Unlock()

	pix := fb.Pixels()
	stride := fb.Stride()
	w, h := fb.Width(), fb.Height()
	for r := 0; r < h; r++ {
		row := pix[r*stride : r*stride+w]
		for i := range row {
			row[i] = uint16(c)
		}
	}
}
