// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"code.hybscloud.com/kont"
)

// Await embeds op in an enclosing program. The operation is built when
// the enclosing program reaches it; its readiness suspensions become
// suspensions of the enclosing operation, and canceling the enclosing
// operation cancels op. op must be unstarted.
func Await[R any](op *Operation[R]) kont.Eff[R] {
	if op.state != StateUnstarted || op.embedded {
		panic("xchan: await of started operation")
	}
	op.embedded = true
	return kont.Bind(kont.Perform(embedOp{child: op}), func(struct{}) kont.Eff[R] {
		op.state = StateTransferring
		build := op.build
		op.build = nil
		return kont.Map(build(), func(r R) R {
			op.result = r
			op.state = StateDone
			return r
		})
	})
}

// Spawn wraps the program produced by build in an operation and queues it
// on rt. The returned operation reports the result once rt has driven it
// to completion.
func Spawn[R any](rt *Runtime, build func() kont.Eff[R]) *Operation[R] {
	op := NewOperation(build)
	rt.Spawn(op)
	return op
}
