// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// CounterSM is the shared-memory centralized sense-reversing counter
// barrier (MCS Paper, "A sense-reversing centralized barrier").
//
// A single shared counter is fetch-and-decremented by every arriving
// goroutine; the goroutine that drives it to zero is the last arriver,
// reseeds the counter, and flips the shared sense bit to release
// everyone else. This is the simplest correct barrier and the cheapest
// to construct, but every goroutine contends on the same two shared
// words (count and globalSense, each on its own cache line), so it
// does not scale past a handful of
// participants the way the tree-based barriers do.
type CounterSM struct {
	_           cacheLinePad
	count       atomix.Int64
	_           cacheLinePad
	globalSense atomix.Bool
	_           cacheLinePad
	p           int64
}

// NewCounterSM creates a centralized counter barrier for p
// participants. Panics if p < 1.
func NewCounterSM(p int) *CounterSM {
	if p < 1 {
		panic("barrier: participant count must be >= 1")
	}
	b := &CounterSM{p: int64(p)}
	b.count.StoreRelaxed(int64(p))
	return b
}

// Enter blocks until all p participants have called Enter for this
// episode.
//
// The sense this call waits for is read before the counter is
// decremented: since the shared sense can only be flipped by the
// participant whose decrement drives the counter to zero, and that can
// only happen after every one of the p participants (including this
// goroutine) has decremented, the value read here is always the
// episode's "old" sense — equivalent to the MCS paper's thread-local
// sense without needing goroutine-local storage.
func (b *CounterSM) Enter() error {
	oldSense := b.globalSense.LoadAcquire()
	newSense := !oldSense

	remaining := b.count.AddAcqRel(-1)
	if remaining == 0 {
		b.count.StoreRelaxed(b.p)
		b.globalSense.StoreRelease(newSense)
		return nil
	}

	sw := spin.Wait{}
	for b.globalSense.LoadAcquire() != newSense {
		sw.Once()
	}
	return nil
}

// Finalize releases the barrier's resources. CounterSM holds no
// resources beyond its own struct, so Finalize is a no-op; it exists
// to satisfy [Barrier] and for symmetry with the DM algorithms, whose
// Finalize does real work.
func (b *CounterSM) Finalize() error {
	return nil
}

var _ Barrier = (*CounterSM)(nil)
