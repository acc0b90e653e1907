// Command mksfx renders the sound effect for a seed to a WAV file, the
// same waveform generate_sound produces at runtime.
package main

import (
	"flag"
	"fmt"
	"os"

	"pz/sfx"

	"github.com/gopxl/beep/wav"
)

func main() {
	var (
		seed    = flag.Int("seed", 0, "Effect seed.")
		outPath = flag.String("out", "", "Output .wav file.")
		params  = flag.Bool("params", false, "Print the derived parameters.")
	)
	flag.Parse()

	if *params {
		p := sfx.ParamsFromSeed(*seed)
		fmt.Printf("wave=%d freq=%.1fHz slide=%.1fHz/s duty=%.2f attack=%s sustain=%s decay=%s\n",
			p.Wave, p.Freq, p.Slide, p.Duty, p.Attack, p.Sustain, p.Decay)
	}
	if *outPath == "" {
		if *params {
			return
		}
		fatalf("usage: mksfx -seed N -out effect.wav [-params]")
	}

	if err := writeWAV(*outPath, *seed); err != nil {
		fatalf("mksfx: %v", err)
	}
}

func writeWAV(path string, seed int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := sfx.Generate(seed)
	if err := wav.Encode(f, buf.Streamer(0, buf.Len()), buf.Format()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode seed %d: %w", seed, err)
	}
	return f.Close()
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
