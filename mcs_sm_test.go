// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"code.hybscloud.com/barrier"
)

func runMCSEpisodes(t *testing.T, p, fanIn, fanOut, episodes int) {
	t.Helper()
	if barrier.RaceEnabled {
		t.Skip("atomix operations look like plain memory accesses to the race detector")
	}

	tree := barrier.NewMCSTree(p, fanIn, fanOut)

	var wg sync.WaitGroup
	var mismatches int64
	counters := make([]int64, p)

	for i := 0; i < p; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := tree.Participant(i)
			for e := 0; e < episodes; e++ {
				atomic.AddInt64(&counters[i], 1)
				if err := b.Enter(); err != nil {
					t.Errorf("participant %d: Enter: %v", i, err)
					return
				}
				for j := 0; j < p; j++ {
					if atomic.LoadInt64(&counters[j]) != int64(e+1) {
						atomic.AddInt64(&mismatches, 1)
					}
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("P=%d fanIn=%d fanOut=%d: episodes did not complete, suspect deadlock", p, fanIn, fanOut)
	}

	if n := atomic.LoadInt64(&mismatches); n != 0 {
		t.Fatalf("P=%d fanIn=%d fanOut=%d: observed %d cross-participant episode-counter mismatches after barrier release", p, fanIn, fanOut, n)
	}
}

func TestMCSTreeDefaultShape(t *testing.T) {
	runMCSEpisodes(t, 8, 4, 2, 50)
}

func TestMCSTreeNonPowerOfTwo(t *testing.T) {
	// spec.md S3's P=7 case: with fan-in 4 node 0 has 4 children (1-4)
	// and node 1 has only 2 of a possible 4 (5, 6), so node 1's arrival
	// word carries padding bits set for the two fan-in slots it never uses.
	runMCSEpisodes(t, 7, 4, 2, 50)
}

func TestMCSTreeFanInOne(t *testing.T) {
	// Degenerates to a chain: every node but the last has exactly one child.
	runMCSEpisodes(t, 5, 1, 1, 20)
}

func TestMCSTreeSingleParticipant(t *testing.T) {
	runMCSEpisodes(t, 1, 4, 2, 10)
}

func TestMCSTreeParticipantOutOfRange(t *testing.T) {
	tree := barrier.NewMCSTree(4, 4, 2)
	defer func() {
		if recover() == nil {
			t.Fatal("Participant(4) on a 4-participant tree: expected panic")
		}
	}()
	tree.Participant(4)
}
