// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import "code.hybscloud.com/atomix"

// mailboxCapacity is the ring buffer capacity backing each
// (sender, receiver, tag) mailbox. Must be a power of two.
const mailboxCapacity = 8

type mailboxPad [64]byte

// mailbox is a bounded single-producer single-consumer ring buffer of
// message payloads. Adapted from the lock-free queue package's SPSC
// shape: a Memory network assigns exactly one sender and one receiver
// to each (src, dst, tag) triple, so SPSC's cached-index fast path
// (no CAS anywhere) is an exact fit, not an approximation.
type mailbox struct {
	_          mailboxPad
	head       atomix.Uint64 // consumer reads from here
	_          mailboxPad
	cachedTail uint64 // consumer's cached view of tail
	_          mailboxPad
	tail       atomix.Uint64 // producer writes here
	_          mailboxPad
	cachedHead uint64 // producer's cached view of head
	_          mailboxPad
	buffer     [][]byte
	mask       uint64
}

func newMailbox() *mailbox {
	return &mailbox{
		buffer: make([][]byte, mailboxCapacity),
		mask:   mailboxCapacity - 1,
	}
}

// tryEnqueue appends payload, returning false if the mailbox is full.
func (m *mailbox) tryEnqueue(payload []byte) bool {
	tail := m.tail.LoadRelaxed()
	if tail-m.cachedHead > m.mask {
		m.cachedHead = m.head.LoadAcquire()
		if tail-m.cachedHead > m.mask {
			return false
		}
	}
	m.buffer[tail&m.mask] = payload
	m.tail.StoreRelease(tail + 1)
	return true
}

// tryDequeue removes and returns the oldest payload, returning false if
// the mailbox is empty.
func (m *mailbox) tryDequeue() ([]byte, bool) {
	head := m.head.LoadRelaxed()
	if head >= m.cachedTail {
		m.cachedTail = m.tail.LoadAcquire()
		if head >= m.cachedTail {
			return nil, false
		}
	}
	payload := m.buffer[head&m.mask]
	m.buffer[head&m.mask] = nil
	m.head.StoreRelease(head + 1)
	return payload, true
}
