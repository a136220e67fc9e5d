// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

// Result codes reported to raw callers that drive a handle directly
// instead of through StreamReader.
const (
	// Blocked: no result yet; wait on read-ready.
	Blocked int64 = -1
	// Closed: the write side closed without delivering data.
	Closed int64 = -1 << 63
	// Canceled: the outstanding read was retracted before any data.
	Canceled int64 = 0
)

// ReadAmount reports the outcome of a read started with
// Handle.StartReading: Blocked while pending, Closed at end of sequence,
// or the number of items written into the caller's region. A completed
// result is consumed.
func ReadAmount(h *Handle) int64 {
	if !h.IsReadReady() {
		return Blocked
	}
	b := h.ReadResult()
	if b == nil {
		return Closed
	}
	return int64(b.Size())
}

// CancelRead retracts a read started with Handle.StartReading. A result
// that already arrived is returned as by ReadAmount. A supplied region the
// writer has not taken goes back to the caller and Canceled is returned.
// Blocked is returned when no region is left to retract, either because
// none was supplied or because the writer is filling it; the caller then
// waits for read-ready as for ReadAmount.
func CancelRead(h *Handle) int64 {
	if h.IsReadReady() {
		return ReadAmount(h)
	}
	if !h.retractReading() {
		return Blocked
	}
	return Canceled
}

// Continuation is the token a raw caller holds for an operation that did
// not complete synchronously. The runtime drives the operation; the
// token's subscription fires once it resolves or is canceled.
type Continuation struct {
	done   *Event
	sub    *Subscription
	state  func() State
	cancel func() bool
}

// Subscription returns the subscription that fires on completion.
func (c *Continuation) Subscription() *Subscription {
	return c.sub
}

// Done reports whether the operation resolved.
func (c *Continuation) Done() bool {
	return c.state() == StateDone
}

// Cancel abandons the operation and fires the completion subscription.
// Reports false once the operation resolved.
func (c *Continuation) Cancel() bool {
	if !c.cancel() {
		return false
	}
	c.done.Activate()
	return true
}

// CallAsync polls op once. If it resolves the result is stored in out and
// nil is returned. Otherwise op is handed to rt, which stores the result
// in out on resolution, and the returned token tracks it.
func CallAsync[R any](rt *Runtime, op *Operation[R], out *R) *Continuation {
	r, err := op.Poll()
	if err == nil {
		*out = r
		return nil
	}
	done := NewEvent()
	c := &Continuation{
		done:   done,
		sub:    done.Subscribe(),
		state:  op.State,
		cancel: op.Cancel,
	}
	rt.Spawn(&asyncTask[R]{op: op, out: out, done: done})
	return c
}

type asyncTask[R any] struct {
	op   *Operation[R]
	out  *R
	done *Event
}

func (t *asyncTask[R]) step() (*Subscription, bool) {
	if t.op.State() == StateCanceled {
		return nil, true
	}
	sub, done := t.op.step()
	if !done {
		return sub, false
	}
	if r, ok := t.op.Result(); ok {
		*t.out = r
		t.done.Activate()
	}
	return nil, true
}
