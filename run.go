// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"context"

	"code.hybscloud.com/kont"
)

// Run spawns both programs on rt, runs it until both resolve and returns
// both results. Interleaves execution of both sides on the calling
// goroutine; does not spawn goroutines or create Go channels. Returns
// ErrStalled if rt drains while either side is still waiting.
func Run[A, B any](ctx context.Context, rt *Runtime, a func() kont.Eff[A], b func() kont.Eff[B]) (A, B, error) {
	opA := Spawn(rt, a)
	opB := Spawn(rt, b)
	if err := rt.Run(ctx); err != nil {
		var zeroA A
		var zeroB B
		return zeroA, zeroB, err
	}
	resultA, okA := opA.Result()
	resultB, okB := opB.Result()
	if !okA || !okB {
		rt.logger.Debug().
			Str(`a`, opA.State().String()).
			Str(`b`, opB.State().String()).
			Log(`run stalled`)
		return resultA, resultB, ErrStalled
	}
	return resultA, resultB, nil
}
