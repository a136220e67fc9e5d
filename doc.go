// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xchan provides cancelable asynchronous future and stream channels
// on a single-threaded cooperative event runtime, built from algebraic
// effects on [code.hybscloud.com/kont].
//
// A channel is a shared [Handle] whose two events signal "can write now"
// and "can read now". Data never crosses the channel by value: the reader
// supplies a [Buffer] over its own memory, the writer lowers values into
// it with a [Codec] and hands it back.
//
// # Architecture
//
//   - Readiness: edge-triggered [Subscription] values on an [Event]. A fresh subscription observes every earlier activation; [Subscription.Reset] discards them.
//   - Runtime: [Runtime] runs registered [Callback] values in FIFO order on one goroutine. Foreign goroutines hand work in through [Runtime.Post], a bounded SPSC inbox via [code.hybscloud.com/lfq].
//   - Operations: every channel operation is an [Operation] whose program suspends only by waiting on a subscription. [Operation.Poll] returns [code.hybscloud.com/iox.ErrWouldBlock] while waiting.
//   - Cancellation: [Operation.Cancel] discards the suspended program and cancels the operations it embedded with [Await]. Writes can be canceled until their values are handed off.
//
// # API Topologies
//
//   - Future: [NewFuture] returns a [FutureWriter]/[FutureReader] pair carrying one value. Reads resolve to [None] when the writer closed without writing.
//   - Stream: [NewStream] returns a [StreamWriter]/[StreamReader] pair carrying chunks of values. [StreamReader.Next] resolves to [None] at end of sequence.
//   - Composition: [Await], [AwaitBind], [AwaitThen], [WaitThen], [ReadBind], [WriteThen], and [Loop] for recursive programs.
//   - Raw callers: [CallAsync], [ReadAmount] and [CancelRead] with the [Blocked], [Closed] and [Canceled] result codes.
//
// # Integration
//
//   - Spawning: [Spawn] and [Runtime.Spawn] queue an operation; the runtime re-registers it on whatever it waits on.
//   - Blocking: [BlockOn], [Exec], [ExecError] and [Run] drive the runtime on the calling goroutine with adaptive backoff.
//
// # Example
//
//	rt := xchan.NewRuntime()
//	w, r := xchan.NewFuture(xchan.Int64)
//	xchan.Spawn(rt, func() kont.Eff[xchan.StreamResult] {
//		return kont.Bind(xchan.Await(w.Write(21).Operation), func(res xchan.StreamResult) kont.Eff[xchan.StreamResult] {
//			w.Close()
//			return kont.Pure(res)
//		})
//	})
//	v, err := xchan.BlockOn(ctx, rt, r.Read().Operation)
package xchan
