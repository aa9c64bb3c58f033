// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

import "fmt"

// ErrAlreadyFinalized is returned by Handle.Init when called on a
// Handle that still holds a non-finalized Barrier.
//
// Re-init without a prior Finalize is undefined behavior in the general
// case (the caller may have live goroutines blocked in Enter on the old
// Barrier); this error is a best-effort debug check, not a guarantee.
var ErrAlreadyFinalized = fmt.Errorf("barrier: handle already holds an active barrier")

// ErrNoActiveBarrier is returned by Handle.Enter or Handle.Finalize
// when the Handle was never initialized or was already finalized.
var ErrNoActiveBarrier = fmt.Errorf("barrier: handle has no active barrier")

// TransportError wraps a distributed-barrier transport failure with the
// rank and round it occurred at, per the "sufficient context" contract
// for DM transport errors.
//
// A dropped synchronization message desynchronizes the entire barrier
// irrecoverably, so TransportError is always fatal: there is no retry
// path at the barrier's own level.
type TransportError struct {
	Rank  int
	Round int
	Op    string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("barrier: %s failed at rank %d, round %d: %v", e.Op, e.Rank, e.Round, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
