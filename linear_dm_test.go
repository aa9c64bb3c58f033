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
	"code.hybscloud.com/barrier/transport"
)

func runDMEpisodes(t *testing.T, newBarrier func(rank, size int, tr transport.Transport) barrier.Barrier, size, episodes int) {
	t.Helper()

	eps := transport.NewMemoryNetwork(size)
	barriers := make([]barrier.Barrier, size)
	for i, ep := range eps {
		barriers[i] = newBarrier(ep.Rank(), ep.Size(), ep)
	}

	var wg sync.WaitGroup
	var mismatches int64
	counters := make([]int64, size)

	for i := 0; i < size; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for e := 0; e < episodes; e++ {
				atomic.AddInt64(&counters[i], 1)
				if err := barriers[i].Enter(); err != nil {
					t.Errorf("rank %d: Enter: %v", i, err)
					return
				}
				for j := 0; j < size; j++ {
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
		t.Fatalf("size=%d: episodes did not complete, suspect deadlock", size)
	}

	if n := atomic.LoadInt64(&mismatches); n != 0 {
		t.Fatalf("size=%d: observed %d cross-rank episode-counter mismatches after barrier release", size, n)
	}

	for _, b := range barriers {
		if err := b.Finalize(); err != nil {
			t.Errorf("Finalize: %v", err)
		}
	}
}

func newLinear(rank, size int, tr transport.Transport) barrier.Barrier {
	return barrier.NewLinear(rank, size, tr)
}

func TestLinearSmall(t *testing.T) {
	runDMEpisodes(t, newLinear, 4, 50)
}

func TestLinearSingleRank(t *testing.T) {
	runDMEpisodes(t, newLinear, 1, 10)
}

func TestLinearOdd(t *testing.T) {
	runDMEpisodes(t, newLinear, 5, 30)
}
