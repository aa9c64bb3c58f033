// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transport defines the point-to-point messaging contract
// distributed barriers are built on, and an in-memory implementation
// for tests.
//
// The transport is assumed reliable and FIFO-ordered per
// (sender, receiver, tag) triple. Distributed barrier correctness
// depends entirely on that ordering guarantee; a transport that
// reorders messages across rounds will desynchronize the barrier.
package transport

import "context"

// Tag distinguishes message classes on the same (sender, receiver)
// pair so that a transport without (src,dst,tag)-independent FIFO can
// still be driven correctly by tagging distinct message kinds
// differently (e.g. the tournament barrier's loser-arrival vs.
// winner-wakeup messages, see tournament_dm.go).
type Tag int

const (
	// TagArrival carries a barrier-episode arrival notification.
	TagArrival Tag = iota
	// TagWakeup carries a barrier-episode release notification.
	TagWakeup
	// TagLoserArrival is the tournament barrier's loser-to-winner
	// arrival message.
	TagLoserArrival
	// TagWinnerWakeup is the tournament barrier's winner-to-loser
	// wakeup message.
	TagWinnerWakeup
)

// Transport is the minimal point-to-point messaging contract a
// distributed barrier consumes: blocking send/receive, rank
// addressing, and world size. Payloads are zero length for every
// barrier algorithm in this package — a tag alone carries all the
// information a barrier episode needs.
type Transport interface {
	// Send blocks until payload has been handed to dst for the given
	// tag. payload may be nil or empty.
	Send(ctx context.Context, dst int, tag Tag, payload []byte) error
	// Recv blocks until a message tagged tag has arrived from src,
	// and returns it.
	Recv(ctx context.Context, src int, tag Tag) ([]byte, error)
	// Rank returns this participant's zero-based rank.
	Rank() int
	// Size returns the total number of participants, P.
	Size() int
}
