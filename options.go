// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

import (
	"fmt"

	"code.hybscloud.com/barrier/transport"
)

// Algorithm selects which barrier implementation a [Handle] constructs.
// Selection is a build- or startup-time constant; there is no runtime
// switching between algorithms once a Handle is initialized.
type Algorithm int

const (
	// CounterAlgorithm is the shared-memory centralized sense-reversing
	// counter barrier.
	CounterAlgorithm Algorithm = iota
	// TreeAlgorithm is the shared-memory software combining tree barrier.
	TreeAlgorithm
	// MCSAlgorithm is the shared-memory MCS arrival/wakeup tree barrier.
	MCSAlgorithm
	// LinearAlgorithm is the distributed linear chain counter barrier.
	LinearAlgorithm
	// DisseminationAlgorithm is the distributed dissemination barrier.
	DisseminationAlgorithm
	// TournamentAlgorithm is the distributed tournament barrier.
	TournamentAlgorithm
)

func (a Algorithm) String() string {
	switch a {
	case CounterAlgorithm:
		return "counter"
	case TreeAlgorithm:
		return "tree"
	case MCSAlgorithm:
		return "mcs"
	case LinearAlgorithm:
		return "linear"
	case DisseminationAlgorithm:
		return "dissemination"
	case TournamentAlgorithm:
		return "tournament"
	default:
		return "unknown"
	}
}

func (a Algorithm) isDM() bool {
	return a == LinearAlgorithm || a == DisseminationAlgorithm || a == TournamentAlgorithm
}

const (
	defaultFanIn     = 4  // K_a, MCS arrival-tree fan-in
	defaultFanOut    = 2  // K_w, MCS wakeup-tree fan-out
	defaultCacheLine = 64 // CACHE_LINE
)

// Config configures [NewHandle]. The zero Config is invalid; use
// [New] to obtain one with defaults filled in.
type Config struct {
	algorithm Algorithm
	p         int
	fanIn     int // K_a for MCS
	fanOut    int // K_w for MCS
	transport transport.Transport
	rank      int
	size      int
}

// New creates a Config selecting algorithm for p participants.
//
// For SM algorithms (CounterAlgorithm, TreeAlgorithm, MCSAlgorithm), p
// is the number of participating goroutines. For DM algorithms, use
// [Config.WithTransport] to attach the rank-addressable transport
// instead; rank/size then come from the transport and p is ignored.
//
// Panics if p < 1.
func New(algorithm Algorithm, p int) *Config {
	if p < 1 {
		panic("barrier: participant count must be >= 1")
	}
	return &Config{
		algorithm: algorithm,
		p:         p,
		fanIn:     defaultFanIn,
		fanOut:    defaultFanOut,
	}
}

// FanIn overrides K_a, the MCS arrival-tree fan-in. Default 4. Has no
// effect on TreeAlgorithm, whose combining tree is fixed at fan-in 2
// per the MCS paper's reference shape (see tree_sm.go).
func (c *Config) FanIn(k int) *Config {
	if k < 1 {
		panic("barrier: fan-in must be >= 1")
	}
	c.fanIn = k
	return c
}

// FanOut overrides K_w, the MCS wakeup-tree fan-out. Default 2.
func (c *Config) FanOut(k int) *Config {
	if k < 1 {
		panic("barrier: fan-out must be >= 1")
	}
	c.fanOut = k
	return c
}

// WithTransport attaches the point-to-point transport a DM algorithm
// uses. Required for LinearAlgorithm, DisseminationAlgorithm, and
// TournamentAlgorithm; ignored for SM algorithms.
func (c *Config) WithTransport(t transport.Transport) *Config {
	c.transport = t
	c.rank = t.Rank()
	c.size = t.Size()
	return c
}

// Build constructs the Barrier selected by c.
//
// TreeAlgorithm and MCSAlgorithm are not buildable through Build:
// unlike CounterSM (symmetric — no participant identity needed) and
// the DM algorithms (identity comes from the transport's rank), the
// combining tree and MCS tree assign each participant a fixed node by
// index, so each goroutine needs its own bound view of one shared
// tree rather than a single process-wide Barrier. Use [Config.BuildTree]
// or [Config.BuildMCS] instead, then bind each goroutine's view with
// (*TreeSM).Participant / (*MCSTree).Participant.
func (c *Config) Build() (Barrier, error) {
	if c.algorithm.isDM() && c.transport == nil {
		return nil, fmt.Errorf("barrier: %s requires a Transport", c.algorithm)
	}
	switch c.algorithm {
	case CounterAlgorithm:
		return NewCounterSM(c.p), nil
	case TreeAlgorithm, MCSAlgorithm:
		return nil, fmt.Errorf("barrier: %s requires per-participant binding; use Config.BuildTree/Config.BuildMCS and call Participant(i)", c.algorithm)
	case LinearAlgorithm:
		return NewLinear(c.rank, c.size, c.transport), nil
	case DisseminationAlgorithm:
		return NewDissemination(c.rank, c.size, c.transport), nil
	case TournamentAlgorithm:
		return NewTournament(c.rank, c.size, c.transport), nil
	default:
		return nil, fmt.Errorf("barrier: unknown algorithm %d", int(c.algorithm))
	}
}

// BuildTree constructs the combining tree barrier selected by c. Any
// FanIn/FanOut override is ignored: the combining tree's fan-in is
// fixed at 2 per the MCS paper's reference shape (see tree_sm.go).
// Returns an error if c was not constructed with TreeAlgorithm.
func (c *Config) BuildTree() (*TreeSM, error) {
	if c.algorithm != TreeAlgorithm {
		return nil, fmt.Errorf("barrier: Config.BuildTree requires TreeAlgorithm, got %s", c.algorithm)
	}
	return NewTreeSM(c.p), nil
}

// BuildMCS constructs the MCS arrival/wakeup tree barrier selected by
// c, honoring any FanIn (K_a) / FanOut (K_w) override. Returns an
// error if c was not constructed with MCSAlgorithm.
func (c *Config) BuildMCS() (*MCSTree, error) {
	if c.algorithm != MCSAlgorithm {
		return nil, fmt.Errorf("barrier: Config.BuildMCS requires MCSAlgorithm, got %s", c.algorithm)
	}
	return NewMCSTree(c.p, c.fanIn, c.fanOut), nil
}

// cacheLinePad is cache line padding to prevent false sharing between
// adjacent tree nodes, mirroring the teacher's pad/padShort idiom.
type cacheLinePad [defaultCacheLine]byte
