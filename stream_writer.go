// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"code.hybscloud.com/kont"
)

// StreamWriter is the writable half of a stream channel.
//
// Besides Write it exposes the producer contract: PollReady until the
// reader has supplied a buffer, then StartSend one batch.
type StreamWriter[T any] struct {
	handle   *Handle
	codec    Codec[T]
	ready    *Subscription
	inflight *StreamWrite[T]
}

// Handle returns the endpoint handle of w.
func (w *StreamWriter[T]) Handle() *Handle {
	return w.handle
}

// PollReady reports whether a batch can be sent now: the reader supplied a
// buffer or went away. Otherwise it returns the subscription to wait on;
// the same subscription is returned until it fires. A closed writer is
// always ready; StartSend then reports false.
func (w *StreamWriter[T]) PollReady() (*Subscription, bool) {
	h := w.handle
	for {
		if !h.IsLive() {
			w.ready = nil
			return nil, true
		}
		if h.IsReadyToWrite() || h.IsReadClosed() {
			w.ready = nil
			return nil, true
		}
		if w.ready == nil {
			sub := h.WriteReadySubscribe()
			sub.Reset()
			w.ready = sub
			return sub, false
		}
		if !w.ready.Ready() {
			return w.ready, false
		}
		// fired without a buffer: wait for the next edge
		w.ready = nil
	}
}

// Capacity returns the number of items the supplied buffer can take, or
// zero if no buffer is available.
func (w *StreamWriter[T]) Capacity() int {
	if !w.handle.IsLive() {
		return 0
	}
	return int(w.handle.WriteCapacity())
}

// StartSend lowers items into the supplied buffer and hands it to the
// reader. Reports false if the reader has gone or w was closed. Panics if
// items exceed the buffer capacity or no buffer is available.
func (w *StreamWriter[T]) StartSend(items []T) bool {
	h := w.handle
	if !h.IsLive() || h.IsReadClosed() {
		return false
	}
	if h.IsReadyToWrite() && uint64(len(items)) > h.WriteCapacity() {
		panic("xchan: stream write exceeds buffer capacity")
	}
	buf := h.StartWriting()
	addr := buf.Address()
	size := w.codec.Size()
	for i, v := range items {
		w.codec.Lower(v, addr.Slot(i, size))
	}
	buf.SetSize(uint64(len(items)))
	h.FinishWriting(buf)
	return true
}

// awaitReady waits until PollReady succeeds.
func (w *StreamWriter[T]) awaitReady() kont.Eff[struct{}] {
	sub, ok := w.PollReady()
	if ok {
		return kont.Pure(struct{}{})
	}
	return kont.Bind(WaitOn(sub), func(struct{}) kont.Eff[struct{}] {
		return w.awaitReady()
	})
}

// Write returns an operation that sends items as one batch and resolves
// once the reader is ready for more. The result counts items, not bytes:
// Complete(len(items)) on success, and an empty batch resolves Complete(0)
// without waiting. A batch larger than the reader's buffer panics when it
// is sent.
func (w *StreamWriter[T]) Write(items []T) *StreamWrite[T] {
	op := &StreamWrite[T]{writer: w, items: items}
	op.Operation = NewOperation(op.program)
	w.track(op)
	return op
}

// WriteAll returns an operation that sends items across as many batches
// as the reader's buffers require.
func (w *StreamWriter[T]) WriteAll(items []T) *StreamWrite[T] {
	op := &StreamWrite[T]{writer: w, items: items}
	op.Operation = NewOperation(op.programAll)
	w.track(op)
	return op
}

func (w *StreamWriter[T]) track(op *StreamWrite[T]) {
	w.inflight = op
	op.onCancel = func() {
		if w.inflight == op {
			w.inflight = nil
		}
		w.ready = nil
	}
}

func (w *StreamWriter[T]) untrack(op *StreamWrite[T]) {
	if w.inflight == op {
		w.inflight = nil
	}
}

// Cancel cancels the in-flight write. Reports whether one was canceled.
// A write embedded with Await is only forgotten; it is canceled through
// the enclosing operation.
func (w *StreamWriter[T]) Cancel() bool {
	op := w.inflight
	if op == nil {
		return false
	}
	w.inflight = nil
	w.ready = nil
	_, ok := op.Cancel()
	return ok
}

// Close closes the write side so the reader observes end of sequence,
// then releases the handle. An in-flight write is canceled; one embedded
// in another operation is woken and resolves Dropped unless it already
// handed its batch off. Close is idempotent.
func (w *StreamWriter[T]) Close() {
	h := w.handle
	if !h.IsLive() {
		return
	}
	if w.inflight != nil && !w.Cancel() {
		h.WriteReadyActivate()
	}
	if !h.IsWriteClosed() {
		h.FinishWriting(nil)
	}
	h.Release()
}

// StreamWrite is an in-flight stream write.
type StreamWrite[T any] struct {
	*Operation[StreamResult]
	writer *StreamWriter[T]
	items  []T
	sent   int
}

// Remaining returns the number of items not yet handed to the reader.
func (op *StreamWrite[T]) Remaining() int {
	return len(op.items)
}

// Sent returns the number of items handed to the reader so far.
func (op *StreamWrite[T]) Sent() int {
	return op.sent
}

// Cancel abandons the write and returns the items that were not handed
// off. Reports false once the write resolved.
func (op *StreamWrite[T]) Cancel() ([]T, bool) {
	if !op.Operation.Cancel() {
		return nil, false
	}
	rest := op.items
	op.items = nil
	return rest, true
}

func (op *StreamWrite[T]) program() kont.Eff[StreamResult] {
	w := op.writer
	if len(op.items) == 0 {
		w.untrack(op)
		return kont.Pure(Complete(0))
	}
	return kont.Bind(w.awaitReady(), func(struct{}) kont.Eff[StreamResult] {
		if !w.StartSend(op.items) {
			w.untrack(op)
			return kont.Pure(Dropped)
		}
		op.sent = len(op.items)
		op.items = nil
		return kont.Map(w.awaitReady(), func(struct{}) StreamResult {
			w.untrack(op)
			return Complete(op.sent)
		})
	})
}

func (op *StreamWrite[T]) programAll() kont.Eff[StreamResult] {
	w := op.writer
	return Loop(struct{}{}, func(struct{}) kont.Eff[kont.Either[struct{}, StreamResult]] {
		if len(op.items) == 0 {
			w.untrack(op)
			return kont.Pure(kont.Right[struct{}](Complete(op.sent)))
		}
		return kont.Bind(w.awaitReady(), func(struct{}) kont.Eff[kont.Either[struct{}, StreamResult]] {
			n := min(w.Capacity(), len(op.items))
			if !w.StartSend(op.items[:n]) {
				w.untrack(op)
				return kont.Pure(kont.Right[struct{}](StreamResult{Status: StatusDropped, N: op.sent}))
			}
			op.sent += n
			op.items = op.items[n:]
			return kont.Pure(kont.Left[struct{}, StreamResult](struct{}{}))
		})
	})
}
