//go:build !tinygo && !cgo

package hal

// Audio output needs the ebiten backend, which requires cgo.
func newHostAudio() Audio { return nullAudio{} }
