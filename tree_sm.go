// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// TreeSM is the shared-memory software combining tree barrier (MCS
// Paper, "A software combining tree barrier with optimized wakeup").
//
// Participants are assigned to leaves of a binary tree; each leaf's
// arrival fans in through its ancestors to the root, which flips the
// shared sense, and the same recursion re-descends to release waiters.
// Unlike CounterSM, contention is spread across O(log P) nodes instead
// of one shared cache line.
//
// Fan-in is fixed at 2, the MCS paper's reference shape: every node at
// index P-1 or above carries fan-in 1 rather than 2 (see NewTreeSM).
type TreeSM struct {
	nodes     []treeNode
	numLeaves int
	p         int
}

type treeNode struct {
	_         cacheLinePad
	k         int
	count     atomix.Int64
	lockSense atomix.Bool
	parent    int // -1 for the root
	_         cacheLinePad
}

// NewTreeSM creates a combining tree barrier for p participants.
// Panics if p < 1.
//
// The tree has v-1 nodes, where v is the next power of two >= p, and
// v/2 leaves. Participant i is assigned leaf (numLeaves-1 + i mod
// numLeaves): each leaf is shared by up to two participants (even when
// p is a power of two), and when p is not a power of two some tail
// nodes have fan-in 1 instead of 2 (spec.md S3's P=7 case exercises
// exactly this).
func NewTreeSM(p int) *TreeSM {
	if p < 1 {
		panic("barrier: participant count must be >= 1")
	}

	v := nextPow2(p)
	numNodes := v - 1
	numLeaves := v / 2
	if numNodes == 0 {
		// p == 1: a single node acting as its own root, fan-in 1.
		numNodes = 1
		numLeaves = 1
	}

	nodes := make([]treeNode, numNodes)
	for i := range nodes {
		k := 2
		if i >= p-1 {
			k = 1
		}
		nodes[i].k = k
		nodes[i].count.StoreRelaxed(int64(k))
		if i == 0 {
			nodes[i].parent = -1
		} else {
			nodes[i].parent = treeParent(i, 2)
		}
	}

	return &TreeSM{nodes: nodes, numLeaves: numLeaves, p: p}
}

// Participant binds a Barrier view to participant index i, one of the
// p participants NewTreeSM was constructed with. Every goroutine
// acting as participant i should call Participant(i) once and reuse
// the returned Barrier across episodes.
func (t *TreeSM) Participant(i int) Barrier {
	if i < 0 || i >= t.p {
		panic("barrier: participant index out of range")
	}
	leaf := t.numLeaves - 1 + i%t.numLeaves
	return &treeParticipant{tree: t, leaf: leaf}
}

// Finalize releases the tree's resources. TreeSM holds no resources
// beyond its own struct; Finalize is a no-op, present for [Barrier]
// symmetry with the DM algorithms.
func (t *TreeSM) Finalize() error {
	return nil
}

type treeParticipant struct {
	tree *TreeSM
	leaf int
}

// Enter blocks until all p participants have called Enter for this
// episode.
//
// The sense to wait for is read from the leaf node before the ascent,
// the same technique CounterSM uses in place of goroutine-local
// storage: the leaf's lockSense can only change once every arrival on
// that leaf (and everything below it) has happened, which can't occur
// before this call's own fetch-and-decrement.
func (p *treeParticipant) Enter() error {
	leaf := &p.tree.nodes[p.leaf]
	sense := !leaf.lockSense.LoadAcquire()
	combiningBarrierAux(p.tree.nodes, p.leaf, sense)
	return nil
}

func (p *treeParticipant) Finalize() error {
	return p.tree.Finalize()
}

func combiningBarrierAux(nodes []treeNode, idx int, sense bool) {
	node := &nodes[idx]

	remaining := node.count.AddAcqRel(-1)
	if remaining == 0 {
		if node.parent >= 0 {
			combiningBarrierAux(nodes, node.parent, sense)
		}
		node.count.StoreRelaxed(int64(node.k))
		node.lockSense.StoreRelease(sense)
		return
	}

	sw := spin.Wait{}
	for node.lockSense.LoadAcquire() != sense {
		sw.Once()
	}
}

var (
	_ Barrier = (*treeParticipant)(nil)
)
