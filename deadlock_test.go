// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/xchan"
)

func TestExecStalled(t *testing.T) {
	logger, rec := newTestLogger()
	rt := xchan.NewRuntime(xchan.WithLogger(logger))
	w, r := xchan.NewFuture(xchan.Int32)
	defer w.Close()
	defer r.Close()

	_, err := xchan.Exec(testContext(t), rt, xchan.Await(r.Read().Operation))
	if !errors.Is(err, xchan.ErrStalled) {
		t.Fatalf("Exec got %v, want ErrStalled", err)
	}
	if !rec.has("exec stalled") {
		t.Fatalf("logged %v", rec.messages())
	}
}

func TestBlockOnStalled(t *testing.T) {
	rt := xchan.NewRuntime()
	w, r := xchan.NewFuture(xchan.Int32)
	defer w.Close()
	defer r.Close()

	_, err := xchan.BlockOn(testContext(t), rt, r.Read().Operation)
	if !errors.Is(err, xchan.ErrStalled) {
		t.Fatalf("BlockOn got %v, want ErrStalled", err)
	}
}

func TestRunStalled(t *testing.T) {
	logger, rec := newTestLogger()
	rt := xchan.NewRuntime(xchan.WithLogger(logger))
	_, ra := xchan.NewFuture(xchan.Int32)
	_, rb := xchan.NewFuture(xchan.Int32)
	defer ra.Close()
	defer rb.Close()

	_, _, err := xchan.Run(testContext(t), rt,
		func() kont.Eff[xchan.Option[int32]] { return xchan.Await(ra.Read().Operation) },
		func() kont.Eff[xchan.Option[int32]] { return xchan.Await(rb.Read().Operation) },
	)
	if !errors.Is(err, xchan.ErrStalled) {
		t.Fatalf("Run got %v, want ErrStalled", err)
	}
	if !rec.has("run stalled") {
		t.Fatalf("logged %v", rec.messages())
	}
}

func TestExecWaitsWhileHeld(t *testing.T) {
	rt := xchan.NewRuntime()
	release := rt.KeepAlive()
	defer release()
	w, r := xchan.NewFuture(xchan.Int32)
	defer w.Close()
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := xchan.Exec(ctx, rt, xchan.Await(r.Read().Operation))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Exec got %v, want DeadlineExceeded", err)
	}
}

func TestRunWaitsWhileHeld(t *testing.T) {
	rt := xchan.NewRuntime()
	release := rt.KeepAlive()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := rt.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run got %v, want DeadlineExceeded", err)
	}
}
