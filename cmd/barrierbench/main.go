// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command barrierbench drives one of the barrier package's algorithms
// through a fixed number of episodes across P goroutines (SM) or P
// processes sharing an in-memory transport (DM, single-process stand-in),
// printing the wall-clock time per episode and failing loudly if any
// goroutine observes a neighbor still mid-episode right after its own
// Enter returns — the same "driver observable" spec.md §6 describes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"code.hybscloud.com/barrier"
	"code.hybscloud.com/barrier/transport"
)

func main() {
	algorithm := flag.String("algorithm", "counter", "counter|tree|mcs|linear|dissemination|tournament")
	participants := flag.Int("p", 8, "number of participants")
	episodes := flag.Int("episodes", 10000, "number of barrier episodes to run")
	fanIn := flag.Int("fan-in", 4, "MCS arrival-tree fan-in (K_a)")
	fanOut := flag.Int("fan-out", 2, "MCS wakeup-tree fan-out (K_w)")
	flag.Parse()

	alg, err := parseAlgorithm(*algorithm)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	if err := run(alg, *participants, *episodes, *fanIn, *fanOut); err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)

	fmt.Printf("%s P=%d episodes=%d: %v total, %v/episode\n",
		alg, *participants, *episodes, elapsed, elapsed/time.Duration(*episodes))
}

func parseAlgorithm(s string) (barrier.Algorithm, error) {
	switch s {
	case "counter":
		return barrier.CounterAlgorithm, nil
	case "tree":
		return barrier.TreeAlgorithm, nil
	case "mcs":
		return barrier.MCSAlgorithm, nil
	case "linear":
		return barrier.LinearAlgorithm, nil
	case "dissemination":
		return barrier.DisseminationAlgorithm, nil
	case "tournament":
		return barrier.TournamentAlgorithm, nil
	default:
		return 0, fmt.Errorf("barrierbench: unknown -algorithm %q", s)
	}
}

func run(alg barrier.Algorithm, p, episodes, fanIn, fanOut int) error {
	barriers, err := buildParticipants(alg, p, fanIn, fanOut)
	if err != nil {
		return err
	}

	counters := make([]int64, p)
	var wg sync.WaitGroup
	var mismatches int64

	for i := 0; i < p; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for e := 0; e < episodes; e++ {
				atomic.AddInt64(&counters[i], 1)
				if err := barriers[i].Enter(); err != nil {
					fmt.Fprintf(os.Stderr, "participant %d: Enter: %v\n", i, err)
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
	wg.Wait()

	for _, b := range barriers {
		_ = b.Finalize()
	}

	if mismatches != 0 {
		return fmt.Errorf("barrierbench: %d cross-participant episode-counter mismatches observed", mismatches)
	}
	return nil
}

func buildParticipants(alg barrier.Algorithm, p, fanIn, fanOut int) ([]barrier.Barrier, error) {
	switch alg {
	case barrier.TreeAlgorithm:
		tree, err := barrier.New(alg, p).BuildTree()
		if err != nil {
			return nil, err
		}
		out := make([]barrier.Barrier, p)
		for i := range out {
			out[i] = tree.Participant(i)
		}
		return out, nil
	case barrier.MCSAlgorithm:
		tree, err := barrier.New(alg, p).FanIn(fanIn).FanOut(fanOut).BuildMCS()
		if err != nil {
			return nil, err
		}
		out := make([]barrier.Barrier, p)
		for i := range out {
			out[i] = tree.Participant(i)
		}
		return out, nil
	case barrier.CounterAlgorithm:
		b := barrier.NewCounterSM(p)
		out := make([]barrier.Barrier, p)
		for i := range out {
			out[i] = b
		}
		return out, nil
	default:
		eps := transport.NewMemoryNetwork(p)
		out := make([]barrier.Barrier, p)
		for i, ep := range eps {
			b, err := barrier.New(alg, p).WithTransport(ep).Build()
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	}
}
