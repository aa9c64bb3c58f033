// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"fmt"

	"code.hybscloud.com/iox"
)

// numTags is the number of distinct Tag values used across the package.
const numTags = 4

// Memory is an in-process, reliable, FIFO-per-(sender,receiver,tag)
// transport for testing distributed barrier algorithms without a real
// network. It is not part of the synchronization contract — the real
// transport is an external collaborator (spec.md §1) — but something
// satisfying [Transport] is required to exercise the DM algorithms.
//
// Every (sender, receiver, tag) triple gets its own mailbox, so
// delivery is per-triple FIFO by construction, never a single shared
// queue multiple senders contend on.
type Memory struct {
	rank    int
	size    int
	mailbox [][]*mailbox // mailbox[dst][src*numTags+tag]
}

// NewMemoryNetwork creates size interconnected in-memory endpoints,
// one per rank, all sharing the same mailbox array.
func NewMemoryNetwork(size int) []*Memory {
	if size < 1 {
		panic("transport: size must be >= 1")
	}

	// mailboxes[dst][src*numTags+tag] is the mailbox dst reads from for
	// messages sent by src tagged tag.
	mailboxes := make([][]*mailbox, size)
	for dst := range mailboxes {
		mailboxes[dst] = make([]*mailbox, size*numTags)
		for i := range mailboxes[dst] {
			mailboxes[dst][i] = newMailbox()
		}
	}

	endpoints := make([]*Memory, size)
	for rank := range endpoints {
		endpoints[rank] = &Memory{
			rank:    rank,
			size:    size,
			mailbox: mailboxes,
		}
	}
	return endpoints
}

func slot(peer int, tag Tag) int {
	return peer*numTags + int(tag)
}

// Rank returns this endpoint's rank.
func (m *Memory) Rank() int { return m.rank }

// Size returns the network's participant count.
func (m *Memory) Size() int { return m.size }

// Send delivers payload to dst, tagged tag, respecting ctx
// cancellation. Blocks with exponential backoff while the mailbox is
// full.
func (m *Memory) Send(ctx context.Context, dst int, tag Tag, payload []byte) error {
	if dst < 0 || dst >= m.size {
		return fmt.Errorf("transport: dst %d out of range [0,%d)", dst, m.size)
	}
	box := m.mailbox[dst][slot(m.rank, tag)]
	buf := append([]byte(nil), payload...)

	backoff := iox.Backoff{}
	for !box.tryEnqueue(buf) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		backoff.Wait()
	}
	return nil
}

// Recv waits for a message tagged tag from src, respecting ctx
// cancellation. Blocks with exponential backoff while the mailbox is
// empty.
func (m *Memory) Recv(ctx context.Context, src int, tag Tag) ([]byte, error) {
	if src < 0 || src >= m.size {
		return nil, fmt.Errorf("transport: src %d out of range [0,%d)", src, m.size)
	}
	box := m.mailbox[m.rank][slot(src, tag)]

	backoff := iox.Backoff{}
	for {
		if payload, ok := box.tryDequeue(); ok {
			return payload, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		backoff.Wait()
	}
}

var _ Transport = (*Memory)(nil)
