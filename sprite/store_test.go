package sprite

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	red   Color = 0xF800
	green Color = 0x07E0
	blue  Color = 0x001F
)

func allEqual(t *testing.T, sp *Sprite, want Color) {
	t.Helper()
	for i, p := range sp.Pix {
		if p != want {
			t.Fatalf("pixel %d (%d,%d) = %#04x, want %#04x", i, i%sp.Width, i/sp.Width, uint16(p), uint16(want))
		}
	}
}

func create(t *testing.T, s *Store, w, h int) Handle {
	t.Helper()
	hd, err := s.Create(w, h)
	require.NoError(t, err)
	return hd
}

func TestCreateIsTransparent(t *testing.T) {
	s := NewStore()
	for _, dims := range [][2]int{{0, 0}, {1, 1}, {3, 5}, {16, 2}, {0, 7}} {
		h := create(t, s, dims[0], dims[1])
		sp, ok := s.Snapshot(h)
		require.True(t, ok)
		assert.Equal(t, dims[0], sp.Width)
		assert.Equal(t, dims[1], sp.Height)
		require.Len(t, sp.Pix, dims[0]*dims[1])
		allEqual(t, sp, Transparent)
	}
}

func TestCreateHandlesAreIndexes(t *testing.T) {
	s := NewStore()
	for i := 0; i < 4; i++ {
		assert.Equal(t, Handle(i), create(t, s, 1, 1))
	}
	assert.Equal(t, 4, s.Len())
}

func TestCreateNegativeDimensions(t *testing.T) {
	s := NewStore()
	h := create(t, s, -3, 2)
	w, hh, ok := s.Size(h)
	require.True(t, ok)
	assert.Equal(t, 0, w)
	assert.Equal(t, 2, hh)
}

func TestClearAllInvalidatesHandles(t *testing.T) {
	s := NewStore()
	a := create(t, s, 2, 2)
	create(t, s, 2, 2)
	s.ClearAll()

	assert.Equal(t, 0, s.Len())
	_, _, ok := s.Size(a)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Blit(a, a, 0, 0), ErrInvalidHandle)

	// Indexes restart once the store is empty.
	assert.Equal(t, Handle(0), create(t, s, 1, 1))
}

func TestFillRectInside(t *testing.T) {
	s := NewStore()
	h := create(t, s, 4, 3)
	s.FillRect(h, red, 1, 1, 2, 1)

	sp, _ := s.Snapshot(h)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			want := Transparent
			if y == 1 && (x == 1 || x == 2) {
				want = red
			}
			assert.Equalf(t, want, sp.At(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestFillRectToEdge(t *testing.T) {
	s := NewStore()
	h := create(t, s, 5, 4)
	s.FillRect(h, green, 2, 1, -1, -1)

	sp, _ := s.Snapshot(h)
	assert.Equal(t, 5, sp.Width)
	assert.Equal(t, 4, sp.Height)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			want := Transparent
			if x >= 2 && y >= 1 {
				want = green
			}
			assert.Equalf(t, want, sp.At(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestFillRectClampsOrigin(t *testing.T) {
	s := NewStore()
	h := create(t, s, 3, 3)
	s.FillRect(h, blue, -5, -5, 1, 1)
	c, _ := s.At(h, 0, 0)
	assert.Equal(t, blue, c)

	// x clamps to width, so -1 becomes an empty rectangle.
	s.FillRect(h, red, 10, 0, -1, 1)
	sp, _ := s.Snapshot(h)
	assert.Equal(t, 3, sp.Width)
	for x := 0; x < 3; x++ {
		assert.NotEqual(t, red, sp.At(x, 0))
	}
}

func TestFillRectGrowsPreservingPositions(t *testing.T) {
	s := NewStore()
	h := create(t, s, 3, 2)
	s.FillRect(h, red, 1, 1, 1, 1)
	s.FillRect(h, green, 0, 0, 1, 1)

	// Origin clamps to (3,2); the rectangle then extends the sprite.
	s.FillRect(h, blue, 5, 5, 2, 3)

	sp, _ := s.Snapshot(h)
	assert.Equal(t, 5, sp.Width)
	assert.Equal(t, 5, sp.Height)
	require.Len(t, sp.Pix, 25)

	assert.Equal(t, green, sp.At(0, 0))
	assert.Equal(t, red, sp.At(1, 1))
	assert.Equal(t, Transparent, sp.At(2, 1))
	assert.Equal(t, Transparent, sp.At(4, 0))
	for y := 2; y < 5; y++ {
		for x := 3; x < 5; x++ {
			assert.Equalf(t, blue, sp.At(x, y), "(%d,%d)", x, y)
		}
	}
	assert.Equal(t, Transparent, sp.At(0, 4))
}

func TestFillRectGrowFromEmpty(t *testing.T) {
	s := NewStore()
	h := create(t, s, 0, 0)
	s.FillRect(h, red, 0, 0, 4, 2)

	sp, _ := s.Snapshot(h)
	assert.Equal(t, 4, sp.Width)
	assert.Equal(t, 2, sp.Height)
	allEqual(t, sp, red)
}

func TestFillRectNegativeExtentsDrawNothing(t *testing.T) {
	s := NewStore()
	h := create(t, s, 3, 3)
	s.FillRect(h, red, 1, 1, -2, 2)
	s.FillRect(h, red, 1, 1, 2, -3)

	sp, _ := s.Snapshot(h)
	assert.Equal(t, 3, sp.Width)
	assert.Equal(t, 3, sp.Height)
	allEqual(t, sp, Transparent)

	// The untouched extent still takes part in growth.
	s.FillRect(h, red, 0, 2, -2, 4)
	sp, _ = s.Snapshot(h)
	assert.Equal(t, 3, sp.Width)
	assert.Equal(t, 6, sp.Height)
	allEqual(t, sp, Transparent)
}

func TestFillRectInvalidHandleIsNoop(t *testing.T) {
	s := NewStore()
	h := create(t, s, 2, 2)
	s.FillRect(h+1, red, 0, 0, 1, 1)
	s.FillRect(-1, red, 0, 0, 1, 1)

	sp, _ := s.Snapshot(h)
	allEqual(t, sp, Transparent)
	assert.Equal(t, 1, s.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	h := create(t, s, 1, 1)
	sp, _ := s.Snapshot(h)
	sp.Pix[0] = red

	c, _ := s.At(h, 0, 0)
	assert.Equal(t, Transparent, c)
}

func TestConcurrentFillRectDistinctHandles(t *testing.T) {
	s := NewStore()
	const writers = 8
	const rounds = 500

	handles := make([]Handle, writers)
	for i := range handles {
		handles[i] = create(t, s, 4, 4)
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			c := Color(i + 1)
			for n := 0; n < rounds; n++ {
				// Every few rounds grow the sprite so reallocation races
				// with the other writers.
				size := 4 + n%16
				s.FillRect(handles[i], c, 0, 0, size, size)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for i, h := range handles {
		sp, ok := s.Snapshot(h)
		require.True(t, ok)
		require.Len(t, sp.Pix, sp.Width*sp.Height)
		assert.Equal(t, 19, sp.Width)
		assert.Equal(t, 19, sp.Height)
		// Largest fill covered everything.
		allEqual(t, sp, Color(i+1))
	}
}

func TestCreateTooLarge(t *testing.T) {
	s := NewStore()
	for _, dims := range [][2]int{
		{1 << 32, 1 << 32}, // product wraps to 0 on 64-bit
		{MaxCells + 1, 1},
		{1, MaxCells + 1},
		{1 << 13, 1 << 12},
	} {
		_, err := s.Create(dims[0], dims[1])
		assert.ErrorIsf(t, err, ErrTooLarge, "Create(%d, %d)", dims[0], dims[1])
	}
	assert.Equal(t, 0, s.Len(), "refused sprites take no handle")

	h, err := s.Create(1<<12, 1<<12)
	require.NoError(t, err)
	assert.Equal(t, Handle(0), h)
}

func TestFillRectTooLargeLeavesSpriteAlone(t *testing.T) {
	s := NewStore()
	h := create(t, s, 2, 2)
	require.NoError(t, s.FillRect(h, red, 0, 0, 1, 1))

	for _, ext := range [][2]int{
		{1 << 32, 1 << 32},
		{math.MaxInt, 1},
		{1, math.MaxInt},
		{MaxCells, 2},
	} {
		err := s.FillRect(h, blue, 0, 0, ext[0], ext[1])
		assert.ErrorIsf(t, err, ErrTooLarge, "FillRect(%d, %d)", ext[0], ext[1])
	}

	sp, _ := s.Snapshot(h)
	assert.Equal(t, 2, sp.Width)
	assert.Equal(t, 2, sp.Height)
	require.Len(t, sp.Pix, 4)
	assert.Equal(t, red, sp.At(0, 0))
	assert.Equal(t, Transparent, sp.At(1, 1))
}

func TestFillRectHugeNegativeExtentDrawsNothing(t *testing.T) {
	s := NewStore()
	h := create(t, s, 2, 2)
	require.NoError(t, s.FillRect(h, red, 1, 1, -1<<62, -1<<62))

	sp, _ := s.Snapshot(h)
	assert.Equal(t, 2, sp.Width)
	allEqual(t, sp, Transparent)
}
