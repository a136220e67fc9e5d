// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"fmt"

	"code.hybscloud.com/kont"
)

// State is the lifecycle state of an [Operation].
type State uint8

const (
	// StateUnstarted: the program has not been built yet.
	StateUnstarted State = iota
	// StateWaiting: suspended on a readiness subscription.
	StateWaiting
	// StateTransferring: running synchronous steps (buffer handoff,
	// lowering, lifting).
	StateTransferring
	// StateDone: resolved; the result is available.
	StateDone
	// StateCanceled: abandoned before resolution.
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateWaiting:
		return "waiting"
	case StateTransferring:
		return "transferring"
	case StateDone:
		return "done"
	case StateCanceled:
		return "canceled"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Operation is a cancelable asynchronous operation.
//
// The program is built on the first Poll, stepped until it suspends on a
// readiness subscription, and resumed by later polls. An operation
// resolves exactly once; polling it afterwards panics.
type Operation[R any] struct {
	state    State
	embedded bool
	build    func() kont.Eff[R]
	susp     *kont.Suspension[R]
	pending  *Subscription
	result   R
	onCancel func()
	children []aborter
}

// NewOperation returns an operation whose program is produced by build
// on the first poll.
func NewOperation[R any](build func() kont.Eff[R]) *Operation[R] {
	return &Operation[R]{build: build}
}

// State returns the current lifecycle state.
func (op *Operation[R]) State() State {
	return op.state
}

// Done reports whether op has resolved.
func (op *Operation[R]) Done() bool {
	return op.state == StateDone
}

// Pending returns the subscription op is suspended on, or nil.
func (op *Operation[R]) Pending() *Subscription {
	return op.pending
}

// Result returns the resolved value and whether op has resolved.
func (op *Operation[R]) Result() (R, bool) {
	return op.result, op.state == StateDone
}

// Poll advances op until it resolves or suspends.
// Returns (result, nil) on resolution, or iox.ErrWouldBlock while waiting
// for Pending to fire.
func (op *Operation[R]) Poll() (R, error) {
	switch op.state {
	case StateUnstarted:
		if op.embedded {
			panic("xchan: poll of awaited operation")
		}
		op.state = StateTransferring
		build := op.build
		op.build = nil
		result, susp := kont.StepExpr(kont.Reify(build()))
		return op.advance(result, susp)
	case StateWaiting:
		var zero R
		return op.advance(zero, op.susp)
	case StateDone:
		panic("xchan: poll of resolved operation")
	case StateCanceled:
		panic("xchan: poll of canceled operation")
	}
	panic("xchan: poll of running operation")
}

// advance dispatches readiness suspensions until one would block.
// On iox.ErrWouldBlock the suspension stays unconsumed for the next poll.
func (op *Operation[R]) advance(result R, susp *kont.Suspension[R]) (R, error) {
	for susp != nil {
		if e, ok := susp.Op().(embedOp); ok {
			op.adopt(e.child)
			result, susp = susp.Resume(struct{}{})
			continue
		}
		v, err := dispatchOp(susp.Op()).DispatchReady()
		if err != nil {
			op.susp = susp
			op.pending = pendingSub(susp.Op())
			op.state = StateWaiting
			var zero R
			return zero, err
		}
		op.state = StateTransferring
		result, susp = susp.Resume(v)
	}
	op.susp = nil
	op.pending = nil
	op.children = nil
	op.result = result
	op.state = StateDone
	return result, nil
}

// Cancel abandons op if it has not resolved. Reports whether op was
// canceled. Operations op embedded with Await are canceled with it.
// An operation embedded with Await is canceled through the enclosing
// operation; calling Cancel on it directly reports false.
func (op *Operation[R]) Cancel() bool {
	if op.embedded || op.finished() {
		return false
	}
	op.abort()
	return true
}

// abort cancels op and every operation it adopted.
func (op *Operation[R]) abort() {
	if op.finished() {
		return
	}
	if op.susp != nil {
		op.susp.Discard()
		op.susp = nil
	}
	op.pending = nil
	op.build = nil
	op.state = StateCanceled
	children := op.children
	op.children = nil
	for _, c := range children {
		c.abort()
	}
	if op.onCancel != nil {
		op.onCancel()
	}
}

func (op *Operation[R]) finished() bool {
	return op.state == StateDone || op.state == StateCanceled
}

// adopt records an embedded operation, dropping those already finished.
func (op *Operation[R]) adopt(c aborter) {
	live := op.children[:0]
	for _, x := range op.children {
		if !x.finished() {
			live = append(live, x)
		}
	}
	op.children = append(live, c)
}

// step implements Task.
func (op *Operation[R]) step() (*Subscription, bool) {
	switch op.state {
	case StateDone, StateCanceled:
		return nil, true
	}
	if _, err := op.Poll(); err != nil {
		return op.pending, false
	}
	return nil, true
}
