// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"code.hybscloud.com/kont"
)

// NewFuture creates a one-shot single-value channel. Both halves share
// one handle; the value travels once from the writer to the reader.
func NewFuture[T any](codec Codec[T]) (*FutureWriter[T], *FutureReader[T]) {
	h := NewHandle()
	w := &FutureWriter[T]{handle: h, codec: codec}
	r := &FutureReader[T]{handle: h.Clone(), codec: codec}
	return w, r
}

// FutureWriter is the writable half of a future channel.
type FutureWriter[T any] struct {
	handle    *Handle
	codec     Codec[T]
	used      bool
	delivered bool
	inflight  *FutureWrite[T]
}

// Handle returns the endpoint handle of w.
func (w *FutureWriter[T]) Handle() *Handle {
	return w.handle
}

// Write returns an operation that delivers v once the reader is ready.
// A future is writable once; a second Write panics.
func (w *FutureWriter[T]) Write(v T) *FutureWrite[T] {
	if w.used {
		panic("xchan: future written twice")
	}
	if !w.handle.IsLive() {
		panic("xchan: write to closed future")
	}
	w.used = true
	op := &FutureWrite[T]{writer: w, value: v}
	op.Operation = NewOperation(op.program)
	op.onCancel = func() {
		w.used = false
		w.inflight = nil
	}
	w.inflight = op
	return op
}

// Close releases the writer. If no value was delivered the write side is
// closed, so the reader resolves to None. An in-flight write is canceled;
// one embedded in another operation is woken and resolves Dropped.
// Close is idempotent.
func (w *FutureWriter[T]) Close() {
	h := w.handle
	if !h.IsLive() {
		return
	}
	if op := w.inflight; op != nil {
		w.inflight = nil
		if !op.Operation.Cancel() {
			h.WriteReadyActivate()
		}
	}
	if !w.delivered && !h.IsWriteClosed() {
		h.FinishWriting(nil)
	}
	h.Release()
}

// FutureWrite is a write that may be canceled before the value is handed
// to the reader.
type FutureWrite[T any] struct {
	*Operation[StreamResult]
	writer *FutureWriter[T]
	value  T
}

func (op *FutureWrite[T]) program() kont.Eff[StreamResult] {
	h := op.writer.handle
	if !h.IsLive() || h.IsReadyToWrite() || h.IsReadClosed() {
		return op.transfer()
	}
	return kont.Bind(WaitOn(h.WriteReadySubscribe()), func(struct{}) kont.Eff[StreamResult] {
		return kont.Bind(writable(h), func(struct{}) kont.Eff[StreamResult] {
			return op.transfer()
		})
	})
}

func (op *FutureWrite[T]) transfer() kont.Eff[StreamResult] {
	w := op.writer
	w.inflight = nil
	h := w.handle
	if !h.IsLive() || h.IsReadClosed() {
		return kont.Pure(Dropped)
	}
	buf := h.StartWriting()
	w.codec.Lower(op.value, buf.Address().Slot(0, w.codec.Size()))
	buf.SetSize(1)
	h.FinishWriting(buf)
	w.delivered = true
	return kont.Pure(Complete(1))
}

// Cancel abandons the write if the value has not been handed off and
// returns the writer for reuse. Reports false once the write resolved.
func (op *FutureWrite[T]) Cancel() (*FutureWriter[T], bool) {
	if !op.Operation.Cancel() {
		return nil, false
	}
	return op.writer, true
}

// FutureReader is the readable half of a future channel.
type FutureReader[T any] struct {
	handle   *Handle
	codec    Codec[T]
	used     bool
	inflight *FutureRead[T]
}

// Handle returns the endpoint handle of r.
func (r *FutureReader[T]) Handle() *Handle {
	return r.handle
}

// Read returns an operation resolving to the value, or to None when the
// writer closed without writing. A future is readable once; a second Read
// panics.
func (r *FutureReader[T]) Read() *FutureRead[T] {
	if r.used {
		panic("xchan: future read twice")
	}
	if !r.handle.IsLive() {
		panic("xchan: read from closed future")
	}
	r.used = true
	op := &FutureRead[T]{reader: r}
	op.Operation = NewOperation(op.program)
	op.onCancel = func() {
		r.used = false
		r.inflight = nil
	}
	r.inflight = op
	return op
}

// Close releases the reader. A writer waiting for readiness is woken and
// resolves Dropped. An in-flight read is canceled; one embedded in another
// operation is woken and resolves None. Close is idempotent.
func (r *FutureReader[T]) Close() {
	h := r.handle
	if !h.IsLive() {
		return
	}
	if op := r.inflight; op != nil {
		r.inflight = nil
		op.Operation.Cancel()
	}
	h.ReadReadyEvent().Activate()
	h.CloseRead()
	h.Release()
}

// FutureRead is a read that may be canceled before it resolves.
type FutureRead[T any] struct {
	*Operation[Option[T]]
	reader *FutureReader[T]
}

func (op *FutureRead[T]) program() kont.Eff[Option[T]] {
	r := op.reader
	h := r.handle
	if !h.IsLive() {
		return kont.Pure(None[T]())
	}
	// a canceled read may have been filled already
	if h.IsReadReady() {
		return op.finish()
	}
	mem := make([]byte, r.codec.Size())
	h.StartReading(NewBuffer(AddressOf(mem), 1))
	sub := h.ReadReadySubscribe()
	sub.Reset()
	return kont.Bind(WaitOn(sub), func(struct{}) kont.Eff[Option[T]] {
		return op.finish()
	})
}

func (op *FutureRead[T]) finish() kont.Eff[Option[T]] {
	r := op.reader
	r.inflight = nil
	if !r.handle.IsLive() {
		return kont.Pure(None[T]())
	}
	b := r.handle.ReadResult()
	if b == nil || b.Size() == 0 {
		return kont.Pure(None[T]())
	}
	return kont.Pure(Some(r.codec.Lift(b.Address().Slot(0, r.codec.Size()))))
}

// Cancel abandons the read and returns the reader for a later Read. The
// supplied buffer is not retracted from the writer; a value delivered into
// it is picked up by the next Read. Reports false once the read resolved.
func (op *FutureRead[T]) Cancel() (*FutureReader[T], bool) {
	if !op.Operation.Cancel() {
		return nil, false
	}
	return op.reader, true
}
