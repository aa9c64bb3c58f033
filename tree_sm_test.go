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

func runTreeEpisodes(t *testing.T, p, episodes int) {
	t.Helper()
	if barrier.RaceEnabled {
		t.Skip("atomix operations look like plain memory accesses to the race detector")
	}

	tree := barrier.NewTreeSM(p)

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
		t.Fatalf("P=%d: episodes did not complete, suspect deadlock", p)
	}

	if n := atomic.LoadInt64(&mismatches); n != 0 {
		t.Fatalf("P=%d: observed %d cross-participant episode-counter mismatches after barrier release", p, n)
	}
}

func TestTreeSMPowerOfTwo(t *testing.T) {
	runTreeEpisodes(t, 4, 50)
}

func TestTreeSMNonPowerOfTwo(t *testing.T) {
	// spec.md S3's non-power-of-two shape: some leaves shared, the tail
	// node has fan-in 1.
	runTreeEpisodes(t, 7, 50)
}

func TestTreeSMSingleParticipant(t *testing.T) {
	runTreeEpisodes(t, 1, 10)
}

func TestTreeSMParticipantOutOfRange(t *testing.T) {
	tree := barrier.NewTreeSM(4)
	defer func() {
		if recover() == nil {
			t.Fatal("Participant(4) on a 4-participant tree: expected panic")
		}
	}()
	tree.Participant(4)
}
