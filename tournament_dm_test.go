// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier_test

import (
	"testing"

	"code.hybscloud.com/barrier"
	"code.hybscloud.com/barrier/transport"
)

func newTournament(rank, size int, tr transport.Transport) barrier.Barrier {
	return barrier.NewTournament(rank, size, tr)
}

func TestTournamentPowerOfTwo(t *testing.T) {
	runDMEpisodes(t, newTournament, 8, 50)
}

func TestTournamentNonPowerOfTwo(t *testing.T) {
	// spec.md S5's P=6 case: rank 0 becomes champion at distance 4
	// (0+4=4 < 6 so round continues, then 8 >= 6 stops); ranks 1,3,5
	// are losers at distance 1; rank 2 beats 3 at distance 1, then loses
	// at distance 2; rank 4 beats 5, has a bye at distance 2, then loses
	// at distance 4.
	runDMEpisodes(t, newTournament, 6, 50)
}

func TestTournamentSingleRank(t *testing.T) {
	runDMEpisodes(t, newTournament, 1, 10)
}

func TestTournamentOdd(t *testing.T) {
	runDMEpisodes(t, newTournament, 7, 30)
}
