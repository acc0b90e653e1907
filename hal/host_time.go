//go:build !tinygo

package hal

import "time"

type hostTime struct {
	start time.Time
	now   func() time.Time
}

func newHostTime() *hostTime {
	return &hostTime{start: time.Now(), now: time.Now}
}

func (t *hostTime) Elapsed() time.Duration {
	d := t.now().Sub(t.start)
	if d < 0 {
		return 0
	}
	return d
}

func (t *hostTime) Ticks() uint64 {
	return uint64(t.Elapsed() / time.Millisecond)
}
