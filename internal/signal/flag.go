package signal

import "sync"

// Flag is the "collectionNeedsRefresh" marker another page sets before
// navigating away. It is read-once: TakeAndClear reports the value and
// resets it, so a set flag triggers at most one refresh.
type Flag struct {
	mu  sync.Mutex
	set bool
}

func NewFlag() *Flag {
	return &Flag{}
}

func (f *Flag) Set() {
	f.mu.Lock()
	f.set = true
	f.mu.Unlock()
}

// TakeAndClear returns whether the flag was set and clears it.
func (f *Flag) TakeAndClear() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	was := f.set
	f.set = false
	return was
}
