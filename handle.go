// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"code.hybscloud.com/atomix"
)

// handleState is the channel state shared by the writer and reader halves.
// The buffer travels reader → writer → reader: the reader supplies it via
// StartReading, the writer takes it with StartWriting and returns it filled
// via FinishWriting, and the reader collects it with ReadResult.
type handleState struct {
	id          HandleID
	refs        atomix.Uint32
	supplied    *Buffer
	result      *Buffer
	writeClosed bool
	readClosed  bool
	readReady   *Event
	writeReady  *Event
}

// Handle is one reference to a channel endpoint.
// Clone shares the endpoint; Release drops the reference, and the last
// release tears the state down.
type Handle struct {
	s *handleState
}

// NewHandle allocates a fresh channel endpoint with a share count of one.
func NewHandle() *Handle {
	s := &handleState{
		id:         nextHandleID(),
		readReady:  NewEvent(),
		writeReady: NewEvent(),
	}
	s.refs.Add(1)
	return &Handle{s: s}
}

// Clone returns another reference to the same endpoint.
func (h *Handle) Clone() *Handle {
	s := h.state()
	s.refs.Add(1)
	return &Handle{s: s}
}

// Release drops this reference. The handle ID becomes zero.
// Releasing a released handle is a no-op.
func (h *Handle) Release() {
	s := h.s
	if s == nil {
		return
	}
	h.s = nil
	if s.refs.Add(^uint32(0)) == 0 {
		s.supplied = nil
		s.result = nil
		s.writeClosed = true
		s.readClosed = true
	}
}

// ID returns the endpoint identity, or zero if h was released.
func (h *Handle) ID() HandleID {
	if h == nil || h.s == nil {
		return 0
	}
	return h.s.id
}

// IsLive reports whether h still references an endpoint.
func (h *Handle) IsLive() bool {
	return h.ID() != 0
}

func (h *Handle) state() *handleState {
	if h.s == nil {
		panic("xchan: use of released handle")
	}
	return h.s
}

// IsReadyToWrite reports whether the reader has supplied a buffer that the
// writer may fill. Never suspends.
func (h *Handle) IsReadyToWrite() bool {
	s := h.state()
	return s.supplied != nil && !s.writeClosed
}

// IsWriteClosed reports whether the write side has been closed.
func (h *Handle) IsWriteClosed() bool {
	return h.state().writeClosed
}

// IsReadReady reports whether ReadResult would return without waiting:
// a filled buffer is pending or the write side is closed.
func (h *Handle) IsReadReady() bool {
	s := h.state()
	return s.result != nil || s.writeClosed
}

// IsReadClosed reports whether the reader half has gone away.
func (h *Handle) IsReadClosed() bool {
	return h.state().readClosed
}

// WriteReadySubscribe returns a subscription to "can write now".
func (h *Handle) WriteReadySubscribe() *Subscription {
	return h.state().writeReady.Subscribe()
}

// ReadReadySubscribe returns a subscription to "can read now".
func (h *Handle) ReadReadySubscribe() *Subscription {
	return h.state().readReady.Subscribe()
}

// WriteReadyEvent returns the write-ready event of the endpoint.
func (h *Handle) WriteReadyEvent() *Event {
	return h.state().writeReady
}

// ReadReadyEvent returns the read-ready event of the endpoint.
func (h *Handle) ReadReadyEvent() *Event {
	return h.state().readReady
}

// WriteCapacity returns the capacity of the supplied buffer in items, or
// zero when no buffer is available.
func (h *Handle) WriteCapacity() uint64 {
	s := h.state()
	if s.supplied == nil || s.writeClosed {
		return 0
	}
	return s.supplied.capacity
}

// StartWriting takes the buffer supplied by the reader. The caller owns
// it until FinishWriting. Panics if no buffer has been supplied.
func (h *Handle) StartWriting() *Buffer {
	s := h.state()
	if s.supplied == nil {
		panic("xchan: start writing without a supplied buffer")
	}
	b := s.supplied
	s.supplied = nil
	b.rearm()
	return b
}

// FinishWriting hands a filled buffer to the reader, or closes the write
// side when b is nil. Activates read-ready once.
func (h *Handle) FinishWriting(b *Buffer) {
	s := h.state()
	if b == nil {
		s.writeClosed = true
	} else {
		s.result = b.handoff()
	}
	s.readReady.Activate()
}

// StartReading supplies b for the writer to fill. Ownership of the region
// moves to the channel. Activates write-ready once.
func (h *Handle) StartReading(b *Buffer) {
	s := h.state()
	nb := b.handoff()
	nb.rearm()
	s.supplied = nb
	s.writeReady.Activate()
}

// ReadResult returns the filled buffer, or nil when the write side closed
// without producing one.
func (h *Handle) ReadResult() *Buffer {
	s := h.state()
	b := s.result
	s.result = nil
	return b
}

// WriteReadyActivate activates write-ready without supplying a buffer.
func (h *Handle) WriteReadyActivate() {
	h.state().writeReady.Activate()
}

// CloseRead marks the reader half gone, discards any supplied buffer and
// activates write-ready so that a waiting writer observes the closure.
func (h *Handle) CloseRead() {
	s := h.state()
	s.readClosed = true
	s.supplied = nil
	s.writeReady.Activate()
}

// retractReading takes back a supplied buffer the writer has not started
// on. Reports whether one was outstanding.
func (h *Handle) retractReading() bool {
	s := h.state()
	if s.supplied == nil {
		return false
	}
	s.supplied = nil
	return true
}
