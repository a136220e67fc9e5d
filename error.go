// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"context"

	"code.hybscloud.com/kont"
)

// runtimeErrorHandler handles both readiness and error effects.
// Readiness ops step the runtime until ready. Error ops short-circuit on Throw.
type runtimeErrorHandler[E, A any] struct {
	ctx    context.Context
	rt     *Runtime
	errCtx *kont.ErrorContext[E]
	fail   *error
}

// Dispatch implements kont.Handler for the composed Readiness+Error handler.
// Dispatch order: Readiness → Error.
func (h runtimeErrorHandler[E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if _, ok := op.(readyDispatcher); ok {
		v, err := waitReady(h.ctx, h.rt, op)
		if err != nil {
			*h.fail = err
			var zero kont.Either[E, A]
			return zero, false
		}
		return v, true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("xchan: unhandled effect in ExecError")
}

// ExecError runs a channel program that may throw errors of type E with
// kont.ThrowError. Returns Right on success and Left on Throw. The error
// return reports runtime failure as Exec does.
func ExecError[E, R any](ctx context.Context, rt *Runtime, protocol kont.Eff[R]) (kont.Either[E, R], error) {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	var fail error
	h := runtimeErrorHandler[E, R]{ctx: ctx, rt: rt, errCtx: &errCtx, fail: &fail}
	result := kont.Handle(wrapped, h)
	if fail != nil {
		var zero kont.Either[E, R]
		return zero, fail
	}
	return result, nil
}
