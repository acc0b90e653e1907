package sfx

import (
	"sync"

	"github.com/gopxl/beep"
)

// Bank caches generated effects by seed. Entries are created on first
// Generate and never evicted.
type Bank struct {
	mu     sync.RWMutex
	sounds map[int]*beep.Buffer
	gen    func(seed int) *beep.Buffer
}

func NewBank() *Bank {
	return newBank(Generate)
}

func newBank(gen func(int) *beep.Buffer) *Bank {
	return &Bank{sounds: make(map[int]*beep.Buffer), gen: gen}
}

// Generate returns the effect for seed, rendering it on first use.
func (b *Bank) Generate(seed int) *beep.Buffer {
	if buf, ok := b.Lookup(seed); ok {
		return buf
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Double-check after acquiring the write lock.
	if buf, ok := b.sounds[seed]; ok {
		return buf
	}
	buf := b.gen(seed)
	b.sounds[seed] = buf
	return buf
}

// Lookup returns a previously generated effect.
func (b *Bank) Lookup(seed int) (*beep.Buffer, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	buf, ok := b.sounds[seed]
	return buf, ok
}

// Len reports how many effects are cached.
func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sounds)
}
