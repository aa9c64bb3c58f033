// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

import (
	"context"

	"code.hybscloud.com/barrier/transport"
)

// Dissemination is the distributed dissemination barrier (MCS Paper,
// "The scalable, distributed dissemination barrier with only local
// spinning"). In round k (0-based), rank i notifies rank
// (i+2^k) mod size and waits on rank (i-2^k) mod size; after
// ceil(log2(size)) rounds every rank has transitively heard from
// every other rank. Unlike Linear, message count per episode is
// O(size log size) rather than O(size), but there is no single
// bottleneck rank.
type Dissemination struct {
	rank   int
	size   int
	t      transport.Transport
	rounds int
}

// NewDissemination creates a dissemination barrier for the rank/size
// pair t is bound to.
func NewDissemination(rank, size int, t transport.Transport) *Dissemination {
	return &Dissemination{rank: rank, size: size, t: t, rounds: disseminationRounds(size)}
}

// Enter blocks until every rank has called Enter for this episode.
func (d *Dissemination) Enter() error {
	ctx := context.Background()

	for k := 0; k < d.rounds; k++ {
		successor, predecessor := disseminationPeers(d.rank, k, d.size)

		if err := d.t.Send(ctx, successor, transport.TagArrival, nil); err != nil {
			return &TransportError{Rank: d.rank, Round: k, Op: "send", Err: err}
		}
		if _, err := d.t.Recv(ctx, predecessor, transport.TagArrival); err != nil {
			return &TransportError{Rank: d.rank, Round: k, Op: "recv", Err: err}
		}
	}
	return nil
}

// Finalize releases the barrier's resources. Dissemination holds no
// resources of its own beyond the transport, which it does not own;
// Finalize is a no-op.
func (d *Dissemination) Finalize() error {
	return nil
}

var _ Barrier = (*Dissemination)(nil)
