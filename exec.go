// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"context"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// waitReady dispatches a readiness effect, stepping rt until the
// subscription fires. Waits with iox.Backoff while only KeepAlive holders
// can make progress. Returns ErrStalled when nothing can.
func waitReady(ctx context.Context, rt *Runtime, op kont.Operation) (kont.Resumed, error) {
	d := dispatchOp(op)
	var bo iox.Backoff
	for {
		v, err := d.DispatchReady()
		if err == nil {
			return v, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if rt.Step() {
			bo.Reset()
			continue
		}
		if rt.holds.Load() == 0 {
			rt.logger.Debug().
				Uint64(`event`, uint64(pendingSub(op).ID())).
				Log(`exec stalled`)
			return nil, ErrStalled
		}
		bo.Wait()
	}
}

// runtimeHandler dispatches readiness effects for Exec.
// Value type: passed by value into kont.Handle.
type runtimeHandler[R any] struct {
	ctx context.Context
	rt  *Runtime
}

// Dispatch implements kont.Handler.
func (h runtimeHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	v, err := waitReady(h.ctx, h.rt, op)
	if err != nil {
		return kont.Left[error, R](err), false
	}
	return v, true
}

// Exec runs a channel program to completion on the calling goroutine.
// Whenever the program waits, Exec runs other callbacks of rt until the
// subscription fires. Returns ErrStalled if rt drains first, or ctx.Err()
// if ctx is done.
func Exec[R any](ctx context.Context, rt *Runtime, protocol kont.Eff[R]) (R, error) {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	h := runtimeHandler[R]{ctx: ctx, rt: rt}
	result := kont.Handle(wrapped, h)
	if err, ok := result.GetLeft(); ok {
		var zero R
		return zero, err
	}
	r, _ := result.GetRight()
	return r, nil
}
