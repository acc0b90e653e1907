//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is double buffered: compositing writes the back buffer
// under the framebuffer lock, Present copies it to the front buffer that
// the window or terminal backend draws.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	back   []uint16

	frontMu sync.Mutex
	front   []uint16
	frames  uint64
}

func newHostFramebuffer(width, height, stride int) *hostFramebuffer {
	if stride < width {
		stride = width
	}
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		back:   make([]uint16, stride*height),
		front:  make([]uint16, stride*height),
	}
}

func (f *hostFramebuffer) Lock()            { f.mu.Lock() }
func (f *hostFramebuffer) Unlock()          { f.mu.Unlock() }
func (f *hostFramebuffer) Width() int       { return f.width }
func (f *hostFramebuffer) Height() int      { return f.height }
func (f *hostFramebuffer) Stride() int      { return f.stride }
func (f *hostFramebuffer) Pixels() []uint16 { return f.back }

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.frontMu.Lock()
	copy(f.front, f.back)
	f.frames++
	f.frontMu.Unlock()
	return nil
}

// snapshotRGBA expands the last presented frame into dst (width*height*4
// bytes) when it is newer than seen.
func (f *hostFramebuffer) snapshotRGBA(dst []byte, seen uint64) (uint64, bool) {
	f.frontMu.Lock()
	defer f.frontMu.Unlock()
	if f.frames == seen {
		return seen, false
	}
	expandRGB565(dst, f.front, f.width, f.height, f.stride)
	return f.frames, true
}

// snapshotFront copies the last presented frame into dst.
func (f *hostFramebuffer) snapshotFront(dst []uint16) {
	f.frontMu.Lock()
	defer f.frontMu.Unlock()
	copy(dst, f.front)
}
