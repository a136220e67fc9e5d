// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"code.hybscloud.com/kont"
)

// StreamReader is the readable half of a stream channel.
//
// The reader owns one chunk buffer of capacity items. Each pull supplies
// it to the writer, waits for read-ready and lifts the delivered items.
type StreamReader[T any] struct {
	handle      *Handle
	codec       Codec[T]
	capacity    int
	scratch     []byte
	outstanding bool
	rest        []T
	inflight    *StreamRead[T]
	into        *Operation[Option[int]]
}

// Handle returns the endpoint handle of r.
func (r *StreamReader[T]) Handle() *Handle {
	return r.handle
}

// ChunkCapacity returns the number of items one pull can deliver.
func (r *StreamReader[T]) ChunkCapacity() int {
	return r.capacity
}

// Next returns the pull for the next chunk. While a pull is in flight the
// same operation is returned, so a caller may poll it again after a
// spurious wakeup. The pull resolves to None at end of sequence.
// Panics while a ReadInto is in flight.
func (r *StreamReader[T]) Next() *StreamRead[T] {
	if r.inflight != nil {
		return r.inflight
	}
	if r.into != nil {
		panic("xchan: read already in flight")
	}
	op := &StreamRead[T]{reader: r}
	op.Operation = NewOperation(func() kont.Eff[Option[[]T]] {
		return kont.Map(r.pull(), func(chunk Option[[]T]) Option[[]T] {
			r.untrack(op)
			return chunk
		})
	})
	op.onCancel = func() {
		r.untrack(op)
	}
	r.inflight = op
	return op
}

// Cancel discards the in-flight read. The supplied buffer stays with the
// writer; a chunk delivered into it is returned by the next pull.
// The reader stops tracking the read even when it reports false because
// the read was embedded with Await; the next Next starts a fresh pull.
// Panics when no read is in flight.
func (r *StreamReader[T]) Cancel() bool {
	switch {
	case r.inflight != nil:
		op := r.inflight
		r.inflight = nil
		return op.Cancel()
	case r.into != nil:
		op := r.into
		r.into = nil
		return op.Cancel()
	}
	panic("xchan: cancel without pending read")
}

// ReadInto returns an operation that lifts the next chunk into buf and
// resolves to the number of items stored, or None at end of sequence.
// Items that do not fit are kept and returned first by the next read.
// Panics while another read is in flight.
func (r *StreamReader[T]) ReadInto(buf []T) *Operation[Option[int]] {
	if r.inflight != nil || r.into != nil {
		panic("xchan: read already in flight")
	}
	var op *Operation[Option[int]]
	op = NewOperation(func() kont.Eff[Option[int]] {
		if len(buf) == 0 {
			r.untrackInto(op)
			return kont.Pure(Some(0))
		}
		return kont.Map(r.pull(), func(chunk Option[[]T]) Option[int] {
			r.untrackInto(op)
			items, ok := chunk.Get()
			if !ok {
				return None[int]()
			}
			n := copy(buf, items)
			if n < len(items) {
				r.rest = items[n:]
			}
			return Some(n)
		})
	})
	op.onCancel = func() {
		r.untrackInto(op)
	}
	r.into = op
	return op
}

// Close drops the reader. A writer waiting for a buffer is woken and its
// write resolves Dropped. An in-flight read is canceled; one embedded in
// another operation is woken and resolves None. Close is idempotent.
func (r *StreamReader[T]) Close() {
	h := r.handle
	if !h.IsLive() {
		return
	}
	if r.inflight != nil || r.into != nil {
		r.Cancel()
	}
	r.rest = nil
	h.ReadReadyEvent().Activate()
	h.CloseRead()
	h.Release()
}

func (r *StreamReader[T]) untrack(op *StreamRead[T]) {
	if r.inflight == op {
		r.inflight = nil
	}
}

func (r *StreamReader[T]) untrackInto(op *Operation[Option[int]]) {
	if r.into == op {
		r.into = nil
	}
}

// pull supplies the chunk buffer unless it is still with the writer and
// waits until a chunk or the close arrives.
func (r *StreamReader[T]) pull() kont.Eff[Option[[]T]] {
	if len(r.rest) > 0 {
		items := r.rest
		r.rest = nil
		return kont.Pure(Some(items))
	}
	h := r.handle
	if !h.IsLive() {
		return kont.Pure(None[[]T]())
	}
	if h.IsReadReady() {
		return kont.Pure(r.collect())
	}
	if !r.outstanding {
		h.StartReading(NewBuffer(AddressOf(r.scratch), uint64(r.capacity)))
		r.outstanding = true
	}
	sub := h.ReadReadySubscribe()
	sub.Reset()
	return kont.Bind(WaitOn(sub), func(struct{}) kont.Eff[Option[[]T]] {
		return r.pull()
	})
}

func (r *StreamReader[T]) collect() Option[[]T] {
	b := r.handle.ReadResult()
	if b == nil {
		return None[[]T]()
	}
	r.outstanding = false
	addr := b.Address()
	size := r.codec.Size()
	items := make([]T, b.Size())
	for i := range items {
		items[i] = r.codec.Lift(addr.Slot(i, size))
	}
	return Some(items)
}

// StreamRead is an in-flight pull of one chunk.
type StreamRead[T any] struct {
	*Operation[Option[[]T]]
	reader *StreamReader[T]
}

// Cancel abandons the pull. Reports false once it resolved.
func (op *StreamRead[T]) Cancel() bool {
	return op.Operation.Cancel()
}
