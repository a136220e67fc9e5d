// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import "fmt"

// Option is a value that may be absent. Reads resolve to None when the
// peer closed without producing data.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether no value is present.
func (o Option[T]) IsNone() bool {
	return !o.ok
}

// Status classifies how a write resolved.
type Status uint8

const (
	// StatusComplete: the items were handed to the reader.
	StatusComplete Status = iota
	// StatusDropped: the reader went away; nothing more can be written.
	StatusDropped
)

// StreamResult is the completion marker of a transfer.
type StreamResult struct {
	Status Status
	N      int
}

// Complete returns the marker for n delivered items.
func Complete(n int) StreamResult {
	return StreamResult{Status: StatusComplete, N: n}
}

// Dropped is the marker of a write whose reader went away.
var Dropped = StreamResult{Status: StatusDropped}

func (r StreamResult) String() string {
	if r.Status == StatusDropped {
		return "Dropped"
	}
	return fmt.Sprintf("Complete(%d)", r.N)
}
