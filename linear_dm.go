// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

import (
	"context"

	"code.hybscloud.com/barrier/transport"
)

// Linear is the distributed linear-chain barrier: rank 0 through
// rank size-1 pass a single token forward, then back, touching every
// rank exactly twice. O(size) messages per episode, no fan-in or
// fan-out — the simplest DM algorithm and the baseline the other two
// are measured against.
type Linear struct {
	rank int
	size int
	t    transport.Transport
}

// NewLinear creates a linear-chain barrier for the rank/size pair t is
// bound to.
func NewLinear(rank, size int, t transport.Transport) *Linear {
	return &Linear{rank: rank, size: size, t: t}
}

// Enter blocks until every rank has called Enter for this episode.
//
// Not the first rank: wait for the rank below to arrive. Not the last
// rank: forward arrival to the rank above. Not the first rank: wake the
// rank below. Not the last rank: wait to be woken by the rank above.
func (l *Linear) Enter() error {
	ctx := context.Background()

	if l.rank != 0 {
		if _, err := l.t.Recv(ctx, l.rank-1, transport.TagArrival); err != nil {
			return &TransportError{Rank: l.rank, Op: "recv-arrival", Err: err}
		}
	}
	if l.rank != l.size-1 {
		if err := l.t.Send(ctx, l.rank+1, transport.TagArrival, nil); err != nil {
			return &TransportError{Rank: l.rank, Op: "send-arrival", Err: err}
		}
	}
	if l.rank != 0 {
		if err := l.t.Send(ctx, l.rank-1, transport.TagWakeup, nil); err != nil {
			return &TransportError{Rank: l.rank, Op: "send-wakeup", Err: err}
		}
	}
	if l.rank != l.size-1 {
		if _, err := l.t.Recv(ctx, l.rank+1, transport.TagWakeup); err != nil {
			return &TransportError{Rank: l.rank, Op: "recv-wakeup", Err: err}
		}
	}
	return nil
}

// Finalize releases the barrier's resources. Linear holds no
// resources of its own beyond the transport, which it does not own;
// Finalize is a no-op.
func (l *Linear) Finalize() error {
	return nil
}

var _ Barrier = (*Linear)(nil)
