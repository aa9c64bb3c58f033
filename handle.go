// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

// Barrier is the uniform three-operation contract every algorithm in
// this package satisfies: construction is init(P), Enter is enter(),
// Finalize is finalize().
//
// Enter blocks the calling goroutine (SM) or the calling process's
// single thread of control (DM) until every participant has called
// Enter for the same episode. SM implementations never fail and
// always return a nil error; DM implementations return a non-nil
// *TransportError on a fatal transport failure, which desynchronizes
// the barrier irrecoverably (there is no retry at this level).
//
// Finalize releases any resources the barrier holds. It must be called
// by exactly one participant after every participant has completed its
// matching Enter calls, and no further Enter calls will be made.
// Use-after-finalize is undefined behavior.
type Barrier interface {
	Enter() error
	Finalize() error
}

// Handle is a process-wide single-slot holder for one active Barrier,
// selected and constructed once via [NewHandle] (spec.md §9's
// "process-wide handle"). Selection is a tagged-variant dispatch at
// construction time — Handle.Enter calls straight through to the
// concrete Barrier's Enter with no virtual dispatch overhead beyond
// one interface call, already paid for by the Barrier abstraction
// itself.
//
// Handle is not safe for concurrent Init/Finalize calls; exactly one
// participant (by convention, rank 0 / the main goroutine) should own
// a Handle's lifecycle while the others call Enter directly on the
// Barrier they were handed (or, in SM usage, share the *Handle and
// only ever call Enter on it).
type Handle struct {
	active Barrier
}

// NewHandle builds a Handle and constructs the Barrier selected by cfg.
func NewHandle(cfg *Config) (*Handle, error) {
	b, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Handle{active: b}, nil
}

// Init replaces h's active Barrier with one built from cfg.
//
// Calling Init while h already holds a non-finalized Barrier returns
// ErrAlreadyFinalized as a best-effort debug check; per spec.md §9 this
// situation (re-init without a prior Finalize) is undefined behavior in
// general, since other goroutines may still be blocked in Enter on the
// old Barrier, so this check is advisory, not a guarantee.
func (h *Handle) Init(cfg *Config) error {
	if h.active != nil {
		return ErrAlreadyFinalized
	}
	b, err := cfg.Build()
	if err != nil {
		return err
	}
	h.active = b
	return nil
}

// Enter delegates to the active Barrier's Enter.
func (h *Handle) Enter() error {
	if h.active == nil {
		return ErrNoActiveBarrier
	}
	return h.active.Enter()
}

// Finalize tears down the active Barrier and clears the slot, allowing
// a subsequent Init to construct a fresh one.
func (h *Handle) Finalize() error {
	if h.active == nil {
		return ErrNoActiveBarrier
	}
	err := h.active.Finalize()
	h.active = nil
	return err
}
