// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"code.hybscloud.com/kont"
)

// WaitThen waits for sub and then continues with next.
// Fuses Perform(awaitReady{sub}) + Then.
func WaitThen[B any](sub *Subscription, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(WaitOn(sub), next)
}

// ResetWaitThen resets sub, waits for a fresh edge and continues with next.
func ResetWaitThen[B any](sub *Subscription, next kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Pure(struct{}{}), func(struct{}) kont.Eff[B] {
		sub.Reset()
		return kont.Then(WaitOn(sub), next)
	})
}

// AwaitBind awaits op and passes its result to f.
// Fuses Await + Bind.
func AwaitBind[A, B any](op *Operation[A], f func(A) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(Await(op), f)
}

// AwaitThen awaits op, discards its result and continues with next.
// Fuses Await + Then.
func AwaitThen[A, B any](op *Operation[A], next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(Await(op), next)
}

// ReadBind reads the future and passes the result to f.
func ReadBind[T, B any](r *FutureReader[T], f func(Option[T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Pure(struct{}{}), func(struct{}) kont.Eff[B] {
		return AwaitBind(r.Read().Operation, f)
	})
}

// WriteThen writes v to the future and continues with next.
func WriteThen[T, B any](w *FutureWriter[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Pure(struct{}{}), func(struct{}) kont.Eff[B] {
		return AwaitThen(w.Write(v).Operation, next)
	})
}

// writable waits, resetting before every wait, until h can be written or
// its reader has gone.
func writable(h *Handle) kont.Eff[struct{}] {
	if !h.IsLive() || h.IsReadyToWrite() || h.IsReadClosed() {
		return kont.Pure(struct{}{})
	}
	sub := h.WriteReadySubscribe()
	sub.Reset()
	return kont.Bind(WaitOn(sub), func(struct{}) kont.Eff[struct{}] {
		return writable(h)
	})
}
