// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package barrier

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// mcsMaxChildren is the number of bits in an arrival word, and so the
// largest fan-in MCSTree supports for the arrival tree.
const mcsMaxChildren = 32

// MCSTree is the shared-memory MCS arrival/wakeup tree barrier (MCS
// Paper, "A scalable, distributed tree-based barrier with only local
// spinning").
//
// Unlike TreeSM's combining tree, MCSTree assigns exactly one node per
// participant (not one node per participant plus internal fan-in
// nodes) and superimposes two independent trees on that same array:
// a fan-in K_a arrival tree a participant climbs to signal it has
// arrived, and a fan-out K_w wakeup tree the root descends to release
// everyone. Every participant spins only on its own node's memory
// (local spinning), never on a shared cache line.
type MCSTree struct {
	nodes []mcsNode
	p     int
}

type mcsNode struct {
	_            cacheLinePad
	arrivalWord  atomix.Uint32
	lockSense    atomix.Bool
	numChildren  int // arrival-tree children this node waits on
	parent       int // arrival-tree parent, -1 for the root
	childSlot    int // which bit of parent's arrivalWord this node sets
	wakeupBegin  int // wakeup-tree children range [wakeupBegin, wakeupEnd)
	wakeupEnd    int
	_            cacheLinePad
}

// NewMCSTree creates an MCS arrival/wakeup tree barrier for p
// participants, with arrival-tree fan-in fanIn (K_a) and wakeup-tree
// fan-out fanOut (K_w). Panics if p < 1, fanIn < 1, fanOut < 1, or
// fanIn exceeds mcsMaxChildren.
func NewMCSTree(p, fanIn, fanOut int) *MCSTree {
	if p < 1 {
		panic("barrier: participant count must be >= 1")
	}
	if fanIn < 1 || fanIn > mcsMaxChildren {
		panic("barrier: fan-in must be in [1, 32]")
	}
	if fanOut < 1 {
		panic("barrier: fan-out must be >= 1")
	}

	nodes := make([]mcsNode, p)
	for i := range nodes {
		childBegin, childEnd := treeChildren(i, fanIn, p)
		numChildren := childEnd - childBegin
		nodes[i].numChildren = numChildren
		nodes[i].arrivalWord.StoreRelaxed(initialArrivalWord(numChildren))

		if i == 0 {
			nodes[i].parent = -1
		} else {
			nodes[i].parent = treeParent(i, fanIn)
			nodes[i].childSlot = childSlot(i, fanIn)
		}

		nodes[i].wakeupBegin, nodes[i].wakeupEnd = treeChildren(i, fanOut, p)
	}

	return &MCSTree{nodes: nodes, p: p}
}

// Participant binds a Barrier view to participant index i.
func (m *MCSTree) Participant(i int) Barrier {
	if i < 0 || i >= m.p {
		panic("barrier: participant index out of range")
	}
	return &mcsParticipant{tree: m, idx: i}
}

// Finalize releases the tree's resources. MCSTree holds no resources
// beyond its own struct; Finalize is a no-op.
func (m *MCSTree) Finalize() error {
	return nil
}

type mcsParticipant struct {
	tree *MCSTree
	idx  int
}

// Enter blocks until all p participants have called Enter for this
// episode.
func (p *mcsParticipant) Enter() error {
	nodes := p.tree.nodes
	node := &nodes[p.idx]

	oriSense := node.lockSense.LoadAcquire()

	sw := spin.Wait{}
	for node.arrivalWord.LoadAcquire() != mcsAllArrivedWord {
		sw.Once()
	}
	node.arrivalWord.StoreRelease(initialArrivalWord(node.numChildren))

	if node.parent >= 0 {
		markArrive(&nodes[node.parent], node.childSlot)
		sw = spin.Wait{}
		for node.lockSense.LoadAcquire() == oriSense {
			sw.Once()
		}
	} else {
		node.lockSense.StoreRelease(!oriSense)
	}

	newSense := !oriSense
	for c := node.wakeupBegin; c < node.wakeupEnd; c++ {
		nodes[c].lockSense.StoreRelease(newSense)
	}
	return nil
}

func (p *mcsParticipant) Finalize() error {
	return p.tree.Finalize()
}

func markArrive(node *mcsNode, slot int) {
	mask := uint32(1) << uint(slot)
	for {
		old := node.arrivalWord.LoadAcquire()
		if node.arrivalWord.CompareAndSwapAcqRel(old, old|mask) {
			return
		}
	}
}

const mcsAllArrivedWord uint32 = ^uint32(0)

func initialArrivalWord(numChildren int) uint32 {
	if numChildren >= mcsMaxChildren {
		return 0
	}
	return ^((uint32(1) << uint(numChildren)) - 1)
}

var _ Barrier = (*mcsParticipant)(nil)
