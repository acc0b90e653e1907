package script

import (
	"strings"
	"time"

	"github.com/dop251/goja"
)

// Natives is the typed engine surface that scripts reach through the
// native table. Methods returning an error have it thrown into the script.
type Natives interface {
	CreateSprite(width, height int) (int, error)
	ClearSprites()
	FillRect(handle int, color string, x, y, w, h int) error
	Blit(dst, src, x, y int) error
	RenderSprite(handle int) error
	Sleep(d time.Duration)
	ElapsedTicks() int64
	ElapsedSeconds() float64
	ScreenWidth() int
	ScreenHeight() int
	PollEvent() (key int, press bool)
	PresentFrame() error
	FillScreen(color string) error
	GenerateSound(seed int)
	PlaySound(seed int)
	Print(msg string)
}

type native struct {
	name string
	fn   func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value
}

// nativeTable is the complete set of globals a script can call. Arguments
// are coerced the way a lenient binding would: missing or non-numeric
// integers read as 0.
var nativeTable = []native{
	{"create_sprite", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		h, err := n.CreateSprite(argInt(call, 0), argInt(call, 1))
		throwIf(rt, err)
		return rt.ToValue(h)
	}},
	{"clear_sprites", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		n.ClearSprites()
		return goja.Undefined()
	}},
	{"fill_rect", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		err := n.FillRect(argInt(call, 0), call.Argument(1).String(),
			argInt(call, 2), argInt(call, 3), argInt(call, 4), argInt(call, 5))
		throwIf(rt, err)
		return goja.Undefined()
	}},
	{"blit", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		throwIf(rt, n.Blit(argInt(call, 0), argInt(call, 1), argInt(call, 2), argInt(call, 3)))
		return goja.Undefined()
	}},
	{"render_sprite", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		throwIf(rt, n.RenderSprite(argInt(call, 0)))
		return goja.Undefined()
	}},
	{"sleep", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		sec := call.Argument(0).ToFloat()
		if sec > 0 {
			n.Sleep(time.Duration(sec * float64(time.Second)))
		}
		return goja.Undefined()
	}},
	{"elapsed_ticks", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		return rt.ToValue(n.ElapsedTicks())
	}},
	{"elapsed_seconds", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		return rt.ToValue(n.ElapsedSeconds())
	}},
	{"screen_width", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		return rt.ToValue(n.ScreenWidth())
	}},
	{"screen_height", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		return rt.ToValue(n.ScreenHeight())
	}},
	{"poll_event", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		key, press := n.PollEvent()
		obj := rt.NewObject()
		_ = obj.Set("key", key)
		_ = obj.Set("isPress", press)
		return obj
	}},
	{"present_frame", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		throwIf(rt, n.PresentFrame())
		return goja.Undefined()
	}},
	{"fill_screen", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		throwIf(rt, n.FillScreen(call.Argument(0).String()))
		return goja.Undefined()
	}},
	{"generate_sound", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		n.GenerateSound(argInt(call, 0))
		return goja.Undefined()
	}},
	{"play_sound", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		n.PlaySound(argInt(call, 0))
		return goja.Undefined()
	}},
	{"print", func(rt *goja.Runtime, n Natives, call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		n.Print(strings.Join(parts, " "))
		return goja.Undefined()
	}},
}

// nativeNames lists the globals registered in every runtime.
func nativeNames() []string {
	names := make([]string, len(nativeTable))
	for i, nt := range nativeTable {
		names[i] = nt.name
	}
	return names
}

func argInt(call goja.FunctionCall, i int) int {
	return int(call.Argument(i).ToInteger())
}

func throwIf(rt *goja.Runtime, err error) {
	if err != nil {
		panic(rt.NewGoError(err))
	}
}
