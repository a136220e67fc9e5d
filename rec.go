// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"code.hybscloud.com/kont"
)

// Loop runs a recursive channel program.
// step returns Left(nextState) to continue or Right(result) to finish.
// Each iteration may wait on readiness any number of times.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if next, ok := e.GetLeft(); ok {
			return Loop(next, step)
		}
		result, _ := e.GetRight()
		return kont.Pure(result)
	})
}

// Collect reads chunks from r until end of sequence and returns them in
// arrival order.
func Collect[T any](r *StreamReader[T]) kont.Eff[[][]T] {
	return Loop(make([][]T, 0), func(acc [][]T) kont.Eff[kont.Either[[][]T, [][]T]] {
		return AwaitBind(r.Next().Operation, func(chunk Option[[]T]) kont.Eff[kont.Either[[][]T, [][]T]] {
			items, ok := chunk.Get()
			if !ok {
				return kont.Pure(kont.Right[[][]T, [][]T](acc))
			}
			return kont.Pure(kont.Left[[][]T, [][]T](append(acc, items)))
		})
	})
}
