// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan_test

import (
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/xchan"
)

func TestFutureWriteThenRead(t *testing.T) {
	rt := xchan.NewRuntime()
	w, r := xchan.NewFuture(xchan.Int64)
	defer r.Close()

	write := xchan.Spawn(rt, func() kont.Eff[xchan.StreamResult] {
		return xchan.Await(w.Write(-7).Operation)
	})
	got, err := xchan.BlockOn(testContext(t), rt, r.Read().Operation)
	if err != nil {
		t.Fatalf("BlockOn: %v", err)
	}
	if v, ok := got.Get(); !ok || v != -7 {
		t.Fatalf("read got (%d, %v), want (-7, true)", v, ok)
	}
	res, ok := write.Result()
	if !ok || res != xchan.Complete(1) {
		t.Fatalf("write result got (%v, %v), want Complete(1)", res, ok)
	}
	w.Close()
}

func TestFutureReadThenWrite(t *testing.T) {
	w, r := xchan.NewFuture(xchan.Float64)
	defer w.Close()
	defer r.Close()

	read := r.Read()
	if _, err := read.Poll(); !iox.IsWouldBlock(err) {
		t.Fatalf("read Poll got %v, want ErrWouldBlock", err)
	}
	write := w.Write(2.5)
	res, err := write.Poll()
	if err != nil || res != xchan.Complete(1) {
		t.Fatalf("write Poll got (%v, %v)", res, err)
	}
	got, err := read.Poll()
	if err != nil {
		t.Fatalf("read Poll: %v", err)
	}
	if v, ok := got.Get(); !ok || v != 2.5 {
		t.Fatalf("read got (%v, %v), want (2.5, true)", v, ok)
	}
}

func TestFutureWriterDropResolvesNone(t *testing.T) {
	w, r := xchan.NewFuture(xchan.Int32)
	defer r.Close()

	read := r.Read()
	if _, err := read.Poll(); !iox.IsWouldBlock(err) {
		t.Fatalf("read Poll got %v, want ErrWouldBlock", err)
	}
	w.Close()
	w.Close()
	got, err := read.Poll()
	if err != nil {
		t.Fatalf("read Poll: %v", err)
	}
	if got.IsSome() {
		t.Fatalf("read got %v, want None", got)
	}
}

func TestFutureClosedBeforeRead(t *testing.T) {
	w, r := xchan.NewFuture(xchan.Int32)
	defer r.Close()
	w.Close()
	got, err := r.Read().Poll()
	if err != nil || !got.IsNone() {
		t.Fatalf("read got (%v, %v), want None", got, err)
	}
}

func TestFutureReaderDropUnblocksWriter(t *testing.T) {
	w, r := xchan.NewFuture(xchan.Uint8)
	defer w.Close()

	write := w.Write(1)
	if _, err := write.Poll(); !iox.IsWouldBlock(err) {
		t.Fatalf("write Poll got %v, want ErrWouldBlock", err)
	}
	r.Close()
	res, err := write.Poll()
	if err != nil || res != xchan.Dropped {
		t.Fatalf("write got (%v, %v), want Dropped", res, err)
	}
}

func TestFutureWriteAfterReaderDrop(t *testing.T) {
	rt := xchan.NewRuntime()
	w, r := xchan.NewFuture(xchan.Bool)
	defer w.Close()
	r.Close()
	res, err := xchan.BlockOn(testContext(t), rt, w.Write(true).Operation)
	if err != nil || res != xchan.Dropped {
		t.Fatalf("write got (%v, %v), want Dropped", res, err)
	}
}

func TestFutureWriteTwicePanics(t *testing.T) {
	w, r := xchan.NewFuture(xchan.Int32)
	defer w.Close()
	defer r.Close()
	w.Write(1)
	mustPanic(t, "written twice", func() { w.Write(2) })
}

func TestFutureReadTwicePanics(t *testing.T) {
	w, r := xchan.NewFuture(xchan.Int32)
	defer w.Close()
	defer r.Close()
	r.Read()
	mustPanic(t, "read twice", func() { r.Read() })
}

func TestFutureCancelWriteBeforeHandoff(t *testing.T) {
	rt := xchan.NewRuntime()
	w, r := xchan.NewFuture(xchan.Uint32)
	defer r.Close()

	first := w.Write(1)
	if _, err := first.Poll(); !iox.IsWouldBlock(err) {
		t.Fatalf("write Poll got %v, want ErrWouldBlock", err)
	}
	back, ok := first.Cancel()
	if !ok || back != w {
		t.Fatal("Cancel before handoff did not return the writer")
	}
	if _, ok := first.Cancel(); ok {
		t.Fatal("second Cancel reported true")
	}

	xchan.Spawn(rt, func() kont.Eff[xchan.StreamResult] {
		return xchan.Await(back.Write(2).Operation)
	})
	got, err := xchan.BlockOn(testContext(t), rt, r.Read().Operation)
	if err != nil {
		t.Fatalf("BlockOn: %v", err)
	}
	if v, ok := got.Get(); !ok || v != 2 {
		t.Fatalf("read got (%d, %v), want (2, true)", v, ok)
	}
	w.Close()
}

func TestFutureCancelWriteAfterHandoff(t *testing.T) {
	w, r := xchan.NewFuture(xchan.Uint32)
	defer w.Close()
	defer r.Close()
	r.Read().Poll()
	write := w.Write(9)
	if _, err := write.Poll(); err != nil {
		t.Fatalf("write Poll: %v", err)
	}
	if _, ok := write.Cancel(); ok {
		t.Fatal("Cancel after handoff reported true")
	}
}

func TestFutureCancelReadThenReread(t *testing.T) {
	w, r := xchan.NewFuture(xchan.Int64)
	defer w.Close()
	defer r.Close()

	read := r.Read()
	if _, err := read.Poll(); !iox.IsWouldBlock(err) {
		t.Fatalf("read Poll got %v, want ErrWouldBlock", err)
	}
	back, ok := read.Cancel()
	if !ok || back != r {
		t.Fatal("Cancel did not return the reader")
	}
	// the writer still fills the abandoned buffer
	if res, err := w.Write(11).Poll(); err != nil || res != xchan.Complete(1) {
		t.Fatalf("write got (%v, %v)", res, err)
	}
	got, err := back.Read().Poll()
	if err != nil {
		t.Fatalf("reread Poll: %v", err)
	}
	if v, ok := got.Get(); !ok || v != 11 {
		t.Fatalf("reread got (%d, %v), want (11, true)", v, ok)
	}
}

func TestFutureDoubledByTask(t *testing.T) {
	rt := xchan.NewRuntime()
	inW, inR := xchan.NewFuture(xchan.Int64)
	outW, outR := xchan.NewFuture(xchan.Int64)
	defer inR.Close()
	defer outW.Close()
	defer outR.Close()

	xchan.Spawn(rt, func() kont.Eff[xchan.StreamResult] {
		return xchan.ReadBind(inR, func(x xchan.Option[int64]) kont.Eff[xchan.StreamResult] {
			v, ok := x.Get()
			if !ok {
				return kont.Pure(xchan.Dropped)
			}
			return xchan.Await(outW.Write(v * 2).Operation)
		})
	})
	xchan.Spawn(rt, func() kont.Eff[struct{}] {
		return xchan.WriteThen(inW, 21, kont.Pure(struct{}{}))
	})
	got, err := xchan.BlockOn(testContext(t), rt, outR.Read().Operation)
	if err != nil {
		t.Fatalf("BlockOn: %v", err)
	}
	if v, ok := got.Get(); !ok || v != 42 {
		t.Fatalf("got (%d, %v), want (42, true)", v, ok)
	}
	inW.Close()
}

func TestFutureUseAfterClosePanics(t *testing.T) {
	w, r := xchan.NewFuture(xchan.Int32)
	w.Close()
	r.Close()
	mustPanic(t, "closed future", func() { w.Write(1) })
	mustPanic(t, "closed future", func() { r.Read() })
}

func TestFutureCancelOuterResetsEmbeddedRead(t *testing.T) {
	rt := xchan.NewRuntime()
	w, r := xchan.NewFuture(xchan.Int32)
	defer w.Close()
	defer r.Close()
	ctx := testContext(t)

	outer := xchan.Spawn(rt, func() kont.Eff[xchan.Option[int32]] {
		return xchan.Await(r.Read().Operation)
	})
	if err := rt.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !outer.Cancel() {
		t.Fatal("Cancel of waiting outer reported false")
	}
	xchan.Spawn(rt, func() kont.Eff[xchan.StreamResult] {
		return xchan.Await(w.Write(6).Operation)
	})
	got, err := xchan.BlockOn(ctx, rt, r.Read().Operation)
	if err != nil {
		t.Fatalf("BlockOn: %v", err)
	}
	if v, ok := got.Get(); !ok || v != 6 {
		t.Fatalf("Read got (%d, %v), want (6, true)", v, ok)
	}
}

func TestFutureCancelOuterResetsEmbeddedWrite(t *testing.T) {
	rt := xchan.NewRuntime()
	w, r := xchan.NewFuture(xchan.Int32)
	defer w.Close()
	defer r.Close()
	ctx := testContext(t)

	outer := xchan.Spawn(rt, func() kont.Eff[xchan.StreamResult] {
		return xchan.Await(w.Write(1).Operation)
	})
	if err := rt.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !outer.Cancel() {
		t.Fatal("Cancel of waiting outer reported false")
	}
	// the writer is reusable after the embedded write was canceled
	write := w.Write(2)
	read := xchan.Spawn(rt, func() kont.Eff[xchan.Option[int32]] {
		return xchan.Await(r.Read().Operation)
	})
	if res, err := xchan.BlockOn(ctx, rt, write.Operation); err != nil || res != xchan.Complete(1) {
		t.Fatalf("Write got (%v, %v), want Complete(1)", res, err)
	}
	if err := rt.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, ok := read.Result(); !ok || got != xchan.Some[int32](2) {
		t.Fatalf("Read got (%v, %v), want Some(2)", got, ok)
	}
}

func TestFutureReaderCloseUnderEmbeddedRead(t *testing.T) {
	rt := xchan.NewRuntime()
	w, r := xchan.NewFuture(xchan.Int32)
	ctx := testContext(t)

	read := xchan.Spawn(rt, func() kont.Eff[xchan.Option[int32]] {
		return xchan.Await(r.Read().Operation)
	})
	if err := rt.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	r.Close()
	w.Close()
	if err := rt.Run(ctx); err != nil {
		t.Fatalf("Run after close: %v", err)
	}
	if got, ok := read.Result(); !ok || got.IsSome() {
		t.Fatalf("Read got (%v, %v), want None", got, ok)
	}
}

func TestFutureWriterCloseUnderEmbeddedWrite(t *testing.T) {
	rt := xchan.NewRuntime()
	w, r := xchan.NewFuture(xchan.Int32)
	defer r.Close()
	ctx := testContext(t)

	write := xchan.Spawn(rt, func() kont.Eff[xchan.StreamResult] {
		return xchan.Await(w.Write(3).Operation)
	})
	if err := rt.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	w.Close()
	if err := rt.Run(ctx); err != nil {
		t.Fatalf("Run after close: %v", err)
	}
	if res, ok := write.Result(); !ok || res != xchan.Dropped {
		t.Fatalf("Write got (%v, %v), want Dropped", res, ok)
	}
	got, err := xchan.BlockOn(ctx, rt, r.Read().Operation)
	if err != nil || got.IsSome() {
		t.Fatalf("Read got (%v, %v), want None", got, err)
	}
}
