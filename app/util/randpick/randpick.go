// Package randpick provides a seedable, goroutine-safe source of uniform choices.
package randpick

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses an index in [0, n).
type Picker interface {
	IntN(n int) int
}

type lockedPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Picker seeded with seed. Seed 0 draws a random seed.
func New(seed uint64) Picker {
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &lockedPicker{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (p *lockedPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rnd.IntN(n)
}

// One returns a uniformly chosen element of items, or "" when items is empty.
func One(p Picker, items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return items[p.IntN(len(items))]
	}
}
