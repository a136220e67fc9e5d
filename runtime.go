// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"context"
	"errors"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
	"github.com/joeycumines/logiface"
)

// ErrStalled reports that the runtime drained all runnable work while the
// awaited operation was still waiting for a readiness edge.
var ErrStalled = errors.New("xchan: runtime stalled with pending operation")

// CallbackState is the result of a readiness callback.
type CallbackState uint8

const (
	// CallbackPending keeps the registration: the subscription is reset
	// and the callback runs again on the next edge.
	CallbackPending CallbackState = iota
	// CallbackReady deregisters the callback.
	CallbackReady
)

// Callback is invoked by the runtime when a registered subscription fires.
type Callback func(data any) CallbackState

type registrationState uint8

const (
	registrationArmed registrationState = iota
	registrationQueued
	registrationRunning
	registrationDone
)

// Registration binds a callback to a subscription on a Runtime.
// It fires at most once per arming.
type Registration struct {
	rt    *Runtime
	sub   *Subscription
	cb    Callback
	data  any
	state registrationState
}

// Cancel deregisters r. Canceling a finished registration is a no-op.
func (r *Registration) Cancel() {
	switch r.state {
	case registrationArmed:
		r.sub.ev.detach(r)
	case registrationDone:
		return
	}
	r.finish()
}

// Done reports whether r has been deregistered.
func (r *Registration) Done() bool {
	return r.state == registrationDone
}

func (r *Registration) arm() {
	r.state = registrationArmed
	if r.sub == nil || r.sub.Ready() {
		r.fire()
		return
	}
	r.sub.ev.attach(r)
}

func (r *Registration) fire() {
	if r.state != registrationArmed {
		return
	}
	r.state = registrationQueued
	r.rt.queue = append(r.rt.queue, r)
}

func (r *Registration) finish() {
	if r.state == registrationDone {
		return
	}
	r.state = registrationDone
	r.rt.live--
}

// Task is an operation the runtime can drive. Every [Operation] is a Task.
type Task interface {
	step() (pending *Subscription, done bool)
}

// Runtime is a single-threaded cooperative event runtime.
// Callbacks run on the goroutine calling Run, in edge-arrival order.
// Only Post and KeepAlive may be called from other goroutines.
type Runtime struct {
	queue  []*Registration
	live   int
	inbox  lfq.SPSC[func()]
	holds  atomix.Uint32
	logger *logiface.Logger[logiface.Event]
}

// NewRuntime creates a runtime.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	o := resolveRuntimeOptions(opts)
	rt := &Runtime{logger: o.logger}
	rt.inbox.Init(o.inboxCapacity)
	return rt
}

// Register arranges for cb(data) to run once sub fires. If sub is already
// ready the callback is queued immediately.
func (rt *Runtime) Register(sub *Subscription, cb Callback, data any) *Registration {
	if sub == nil {
		panic("xchan: register without subscription")
	}
	r := &Registration{rt: rt, sub: sub, cb: cb, data: data}
	rt.live++
	rt.logger.Trace().
		Uint64(`event`, uint64(sub.ID())).
		Log(`registration armed`)
	r.arm()
	return r
}

// Spawn queues t; the runtime polls it and re-registers it on every
// subscription it suspends on until it resolves.
func (rt *Runtime) Spawn(t Task) {
	r := &Registration{rt: rt, cb: rt.pollTask, data: t}
	rt.live++
	r.arm()
}

func (rt *Runtime) pollTask(data any) CallbackState {
	t := data.(Task)
	sub, done := t.step()
	if !done {
		rt.Register(sub, rt.pollTask, t)
	}
	return CallbackReady
}

// Pending returns the number of registrations that have not been
// deregistered, including spawned tasks.
func (rt *Runtime) Pending() int {
	return rt.live
}

// Step runs inbox work and at most one queued callback.
// Reports whether anything ran.
func (rt *Runtime) Step() bool {
	progress := rt.drainInbox()
	if len(rt.queue) == 0 {
		return progress
	}
	r := rt.queue[0]
	rt.queue[0] = nil
	rt.queue = rt.queue[1:]
	rt.dispatch(r)
	return true
}

func (rt *Runtime) dispatch(r *Registration) {
	if r.state != registrationQueued {
		return
	}
	r.state = registrationRunning
	st := r.cb(r.data)
	if r.state != registrationRunning {
		// canceled from inside the callback
		return
	}
	if st == CallbackPending && r.sub != nil {
		r.sub.Reset()
		r.arm()
		return
	}
	r.finish()
}

// Run drains runnable callbacks until none remain. While KeepAlive holds
// are outstanding it waits for Post calls with adaptive backoff instead of
// returning. Registrations still waiting for an edge stay registered; a
// later Run continues them.
func (rt *Runtime) Run(ctx context.Context) error {
	var bo iox.Backoff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rt.Step() {
			bo.Reset()
			continue
		}
		if rt.holds.Load() == 0 {
			if rt.live > 0 {
				rt.logger.Debug().
					Int(`pending`, rt.live).
					Log(`runtime idle with waiting registrations`)
			}
			return nil
		}
		bo.Wait()
	}
}

// Post hands fn from a foreign goroutine to the loop. At most one foreign
// goroutine may call Post at a time. Non-blocking: returns
// iox.ErrWouldBlock when the inbox is full.
func (rt *Runtime) Post(fn func()) error {
	if err := rt.inbox.Enqueue(&fn); err != nil {
		rt.logger.Warning().
			Err(err).
			Log(`runtime inbox full`)
		return err
	}
	return nil
}

// KeepAlive keeps Run waiting for Post calls until release is called.
// Call release once the foreign producer has posted its last function.
func (rt *Runtime) KeepAlive() (release func()) {
	rt.holds.Add(1)
	var released bool
	return func() {
		if released {
			return
		}
		released = true
		rt.holds.Add(^uint32(0))
	}
}

func (rt *Runtime) drainInbox() bool {
	progress := false
	for {
		fn, err := rt.inbox.Dequeue()
		if err != nil {
			return progress
		}
		progress = true
		fn()
	}
}

// BlockOn spawns op on rt and runs rt until op resolves.
// Returns ErrStalled if rt drains while op is still waiting.
func BlockOn[R any](ctx context.Context, rt *Runtime, op *Operation[R]) (R, error) {
	rt.Spawn(op)
	if err := rt.Run(ctx); err != nil {
		var zero R
		return zero, err
	}
	if !op.Done() {
		var zero R
		return zero, ErrStalled
	}
	return op.result, nil
}
