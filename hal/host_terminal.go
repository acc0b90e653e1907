//go:build !tinygo

package hal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
)

// RunTerminal draws the presented framebuffer into the terminal, two pixel
// rows per character cell, and forwards keys. Ctrl-C ends the run.
func RunTerminal(ctx context.Context, cfg Config, hz int, newApp func(HAL) func() error) error {
	if hz <= 0 {
		hz = 30
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	h := newHost(cfg)
	step := newApp(h)

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if k, ok := ev.(*tcell.EventKey); ok {
				if k.Key() == tcell.KeyCtrlC {
					return
				}
				if e, ok := terminalKey(k); ok {
					h.kbd.push(e)
				}
			}
		}
	}()

	t := time.NewTicker(time.Second / time.Duration(hz))
	defer t.Stop()

	tv := &terminalView{fb: h.fb}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-quit:
			return nil
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tv.draw(screen)
		}
	}
}

type terminalView struct {
	fb    *hostFramebuffer
	front []uint16
}

func (v *terminalView) draw(screen tcell.Screen) {
	fb := v.fb
	if v.front == nil {
		v.front = make([]uint16, len(fb.front))
	}
	fb.snapshotFront(v.front)

	cols, rows := screen.Size()
	cells := terminalCells(v.front, fb.width, fb.height, fb.stride, cols, rows)
	for y, row := range cells {
		for x, c := range row {
			style := tcell.StyleDefault.Foreground(tcellColor(c[0])).Background(tcellColor(c[1]))
			screen.SetContent(x, y, '▀', nil, style)
		}
	}
	screen.Show()
}

// terminalCells downsamples the frame to fit cols x rows cells. Each cell
// holds the upper and lower pixel it represents.
func terminalCells(pix []uint16, width, height, stride, cols, rows int) [][][2]uint16 {
	if width <= 0 || height <= 0 || cols <= 0 || rows <= 0 {
		return nil
	}
	step := 1
	for width/step > cols || height/step > rows*2 {
		step++
	}
	outW := width / step
	outH := (height/step + 1) / 2

	cells := make([][][2]uint16, outH)
	for cy := range cells {
		cells[cy] = make([][2]uint16, outW)
		for cx := range cells[cy] {
			x := cx * step
			top := cy * 2 * step
			bot := top + step
			cells[cy][cx][0] = pix[top*stride+x]
			if bot < height {
				cells[cy][cx][1] = pix[bot*stride+x]
			}
		}
	}
	return cells
}

func tcellColor(p uint16) tcell.Color {
	r, g, b := rgb888From565(p)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

var tcellKeys = map[tcell.Key]KeyCode{
	tcell.KeyUp:        KeyUp,
	tcell.KeyDown:      KeyDown,
	tcell.KeyLeft:      KeyLeft,
	tcell.KeyRight:     KeyRight,
	tcell.KeyEnter:     KeyEnter,
	tcell.KeyEscape:    KeyEscape,
	tcell.KeyBackspace: KeyBackspace,
	tcell.KeyTab:       KeyTab,
	tcell.KeyDelete:    KeyDelete,
	tcell.KeyHome:      KeyHome,
	tcell.KeyEnd:       KeyEnd,
	tcell.KeyF1:        KeyF1,
	tcell.KeyF2:        KeyF2,
	tcell.KeyF3:        KeyF3,
}

// terminalKey maps a tcell key to a press event. Terminals report no key
// releases.
func terminalKey(k *tcell.EventKey) (KeyEvent, bool) {
	if k.Key() == tcell.KeyRune {
		if k.Rune() == ' ' {
			return KeyEvent{Code: KeySpace, Press: true}, true
		}
		return KeyEvent{Press: true, Rune: k.Rune()}, true
	}
	if code, ok := tcellKeys[k.Key()]; ok {
		return KeyEvent{Code: code, Press: true}, true
	}
	return KeyEvent{}, false
}
