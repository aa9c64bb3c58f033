// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

import (
	"context"

	"code.hybscloud.com/barrier/transport"
)

// Tournament is the distributed tournament barrier (MCS Paper, "A
// scalable, distributed tournament barrier with only local spinning").
//
// Ranks are paired in a statically-known elimination bracket: at
// distance d = 2^round, rank i is the winner if i mod 2d == 0 and
// i+d < size, the loser if i mod 2d == d, and a bye otherwise
// (advances automatically, no opponent this round). The distance
// doubles each round the current rank keeps winning, until either it
// loses (and waits to be woken) or no opponent remains at distance d
// (champion). The champion then descends the same bracket, halving
// the distance each step, waking the loser it beat at that distance.
type Tournament struct {
	rank int
	size int
	t    transport.Transport
}

// NewTournament creates a tournament barrier for the rank/size pair t
// is bound to.
func NewTournament(rank, size int, t transport.Transport) *Tournament {
	return &Tournament{rank: rank, size: size, t: t}
}

// Enter blocks until every rank has called Enter for this episode.
func (tm *Tournament) Enter() error {
	ctx := context.Background()

	d := 1
	for d < tm.size {
		role, opponent := tournamentRoleAt(tm.rank, d, tm.size)
		switch role {
		case roleLoser:
			// Notify the winner at distance d below, then wait to be
			// woken. d stops advancing here: this rank never won past
			// this distance, so its wakeup duty below starts one
			// level below d, not at d itself.
			if err := tm.t.Send(ctx, opponent, transport.TagLoserArrival, nil); err != nil {
				return &TransportError{Rank: tm.rank, Round: d, Op: "send-loser-arrival", Err: err}
			}
			if _, err := tm.t.Recv(ctx, opponent, transport.TagWinnerWakeup); err != nil {
				return &TransportError{Rank: tm.rank, Round: d, Op: "recv-winner-wakeup", Err: err}
			}
		case roleWinner, roleChampion:
			if _, err := tm.t.Recv(ctx, opponent, transport.TagLoserArrival); err != nil {
				return &TransportError{Rank: tm.rank, Round: d, Op: "recv-loser-arrival", Err: err}
			}
		}
		if role == roleLoser {
			break
		}
		d *= 2
	}

	// Wakeup descends from one level below the arrival loop's exit
	// distance: a loser exits with d still at its losing distance (it
	// never won that round, so it owes no wakeup there), and the
	// champion exits with d doubled one round past size (that round
	// never had a real opponent either). Starting at d/2 is correct
	// for both.
	for d /= 2; d > 0; d /= 2 {
		loser := tm.rank + d
		if loser < tm.size {
			if err := tm.t.Send(ctx, loser, transport.TagWinnerWakeup, nil); err != nil {
				return &TransportError{Rank: tm.rank, Round: d, Op: "send-winner-wakeup", Err: err}
			}
		}
	}
	return nil
}

// Finalize releases the barrier's resources. Tournament holds no
// resources of its own beyond the transport, which it does not own;
// Finalize is a no-op.
func (tm *Tournament) Finalize() error {
	return nil
}

var _ Barrier = (*Tournament)(nil)
