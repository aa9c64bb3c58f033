// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

// This file holds the pure, stateless topology arithmetic shared by the
// combining tree, MCS tree, dissemination, and tournament algorithms.
// None of it touches shared state; every function is safe to call
// concurrently from any number of goroutines.

// treeParent returns the fan-in-K binary-tree parent of node i, or -1 if
// i is the root (i == 0).
func treeParent(i, k int) int {
	if i <= 0 {
		return -1
	}
	return (i - 1) / k
}

// treeChildren returns the [begin, end) range of fan-out-K children of
// node i, clamped to [0, n). The range is empty (begin == end) if node
// i has no children within n.
func treeChildren(i, k, n int) (begin, end int) {
	begin = i*k + 1
	end = begin + k
	if end > n {
		end = n
	}
	if begin >= end {
		return 0, 0
	}
	return begin, end
}

// childSlot returns which child slot (0-based, within [0, k)) node i
// occupies under its fan-in-K parent.
func childSlot(i, k int) int {
	return (i - 1) % k
}

// disseminationPeers returns, for rank i at round k (0-based) among n
// participants, the successor to notify and the predecessor to wait on.
func disseminationPeers(i, k, n int) (successor, predecessor int) {
	d := 1 << uint(k)
	successor = (i + d) % n
	predecessor = ((i-d)%n + n) % n
	return successor, predecessor
}

// disseminationRounds returns ceil(log2(n)) rounds, the number of
// dissemination rounds required for n participants. n must be >= 1.
func disseminationRounds(n int) int {
	rounds := 0
	for (1 << uint(rounds)) < n {
		rounds++
	}
	return rounds
}

// tournamentRole describes the role a rank plays in one round of the
// tournament barrier.
type tournamentRole int

const (
	roleWinner tournamentRole = iota
	roleLoser
	roleBye
	roleChampion
)

// tournamentRoleAt returns the role of rank i at round distance d
// (d = 2^(round-1), 1-indexed rounds) among n participants, along with
// its opponent rank where applicable. A winner becomes roleChampion
// instead of roleWinner when doubling d would reach or exceed n: there
// is no further round to win.
func tournamentRoleAt(i, d, n int) (role tournamentRole, opponent int) {
	twoD := 2 * d
	if i%twoD == 0 {
		opponent = i + d
		if opponent < n {
			if twoD >= n {
				return roleChampion, opponent
			}
			return roleWinner, opponent
		}
		return roleBye, -1
	}
	if i%twoD == d {
		return roleLoser, i - d
	}
	return roleBye, -1
}

// nextPow2 rounds n up to the next power of 2; n must be >= 1.
func nextPow2(n int) int {
	if n < 1 {
		return 1
	}
	v := 1
	for v < n {
		v <<= 1
	}
	return v
}
