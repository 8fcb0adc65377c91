package session

import (
	"image/color"
	"sync"
)

// ColorBus fans the current pen colour out to interested widgets.
type ColorBus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(color.RGBA)
}

// Subscribe registers fn and returns a function that removes it.
func (b *ColorBus) Subscribe(fn func(color.RGBA)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(color.RGBA))
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish calls every subscriber with c, in subscription order.
func (b *ColorBus) Publish(c color.RGBA) {
	b.mu.Lock()
	fns := make([]func(color.RGBA), 0, len(b.subs))
	for id := 0; id < b.next; id++ {
		if fn, ok := b.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}
