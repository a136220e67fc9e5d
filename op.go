// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// awaitReady is the effect operation for waiting on a subscription.
// Perform(awaitReady{sub: s}) suspends until s is ready.
// It is the only suspension point of every channel operation.
type awaitReady struct {
	kont.Phantom[struct{}]
	sub *Subscription
}

// DispatchReady resumes the computation when the subscription has fired.
// Non-blocking: returns iox.ErrWouldBlock while no edge has arrived.
func (a awaitReady) DispatchReady() (kont.Resumed, error) {
	if !a.sub.Ready() {
		return nil, iox.ErrWouldBlock
	}
	return struct{}{}, nil
}

// embedOp is the effect operation Await performs before running an inner
// operation. The driving Operation adopts the child so that canceling the
// outer operation cancels it too. Other drivers resume at once.
type embedOp struct {
	kont.Phantom[struct{}]
	child aborter
}

// DispatchReady resumes immediately.
func (e embedOp) DispatchReady() (kont.Resumed, error) {
	return struct{}{}, nil
}

// aborter is an operation embedded in another one.
type aborter interface {
	abort()
	finished() bool
}

// readyDispatcher is the structural interface for readiness effects.
type readyDispatcher interface {
	DispatchReady() (kont.Resumed, error)
}

// WaitOn suspends the enclosing program until sub fires.
// The subscription is not reset first.
func WaitOn(sub *Subscription) kont.Eff[struct{}] {
	return kont.Perform(awaitReady{sub: sub})
}

// dispatchOp returns the readiness dispatcher of a suspension.
// Any other effect is a programming error.
func dispatchOp(op kont.Operation) readyDispatcher {
	d, ok := op.(readyDispatcher)
	if !ok {
		panic("xchan: unhandled effect in operation")
	}
	return d
}

// pendingSub returns the subscription a readiness effect waits on.
func pendingSub(op kont.Operation) *Subscription {
	if a, ok := op.(awaitReady); ok {
		return a.sub
	}
	return nil
}
