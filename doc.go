// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package barrier provides process-wide barrier synchronization
// primitives for P cooperating participants.
//
// A barrier is a rendezvous point: every participant that calls Enter
// blocks until all P participants have called Enter for the same
// episode, after which all are released and may proceed. Two transports
// are supported:
//
//   - Shared-memory (SM): participants are goroutines in one address
//     space, coordinating through atomic memory locations.
//   - Distributed (DM): participants are independent ranks coordinating
//     by point-to-point messages over a
//     [code.hybscloud.com/barrier/transport.Transport].
//
// # Quick Start
//
// Shared-memory, centralized counter barrier:
//
//	b := barrier.NewCounterSM(4)
//	for i := range 4 {
//	    go func(id int) {
//	        for episode := range 1_000_000 {
//	            work(id, episode)
//	            b.Enter()
//	        }
//	    }(i)
//	}
//
// Distributed, dissemination barrier over an existing transport:
//
//	b := barrier.NewDissemination(rank, size, tr)
//	for {
//	    if err := b.Enter(); err != nil {
//	        return err
//	    }
//	}
//
// # Algorithm Selection
//
// Six barrier types are provided, all presenting the same contract
// (construct, Enter, Finalize):
//
//	SM: CounterSM     - centralized sense-reversing counter
//	SM: TreeSM        - software combining tree
//	SM: MCSTree       - MCS arrival/wakeup tree, local-spinning only
//	DM: Linear        - linear chain counter, O(P) messages
//	DM: Dissemination - O(log P) rounds, symmetric
//	DM: Tournament    - fixed-bracket elimination
//
// [Handle] wraps a single selected algorithm behind one process-wide
// value, chosen once by a tagged [Algorithm] in [Config] at
// construction time; each Handle.Enter is then one interface call on
// the chosen Barrier.
//
// # Memory Ordering
//
// All shared SM state uses [code.hybscloud.com/atomix] with explicit
// acquire/release/relaxed orderings. Busy-wait spins use
// [code.hybscloud.com/spin] for pause-hinted backoff. No locks are used
// anywhere in the SM algorithms.
//
// # Non-Goals
//
// Barriers do not exchange data between participants beyond
// synchronization, tolerate participant death mid-barrier, support
// dynamic membership, or support cancellation/timeout of an in-progress
// Enter. A participant that calls Enter more often than its peers
// deadlocks; this is by design, not a bug.
package barrier
