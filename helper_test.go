// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan_test

import (
	"context"
	"testing"
	"time"

	"code.hybscloud.com/xchan"
	"github.com/joeycumines/logiface"
)

// testEvent records the message and level of one log line.
type testEvent struct {
	logiface.UnimplementedEvent
	level  logiface.Level
	msg    string
	fields map[string]any
}

func (e *testEvent) Level() logiface.Level { return e.level }

func (e *testEvent) AddField(key string, val any) {
	if e.fields == nil {
		e.fields = make(map[string]any)
	}
	e.fields[key] = val
}

func (e *testEvent) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

// logRecorder collects every written event.
type logRecorder struct {
	events []*testEvent
}

func (r *logRecorder) NewEvent(level logiface.Level) *testEvent {
	return &testEvent{level: level}
}

func (r *logRecorder) Write(event *testEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *logRecorder) messages() []string {
	msgs := make([]string, 0, len(r.events))
	for _, e := range r.events {
		msgs = append(msgs, e.msg)
	}
	return msgs
}

func (r *logRecorder) has(msg string) bool {
	for _, e := range r.events {
		if e.msg == msg {
			return true
		}
	}
	return false
}

// newTestLogger returns a trace-level logger writing into a recorder.
func newTestLogger() (*logiface.Logger[logiface.Event], *logRecorder) {
	rec := &logRecorder{}
	typed := logiface.New[*testEvent](
		logiface.WithEventFactory[*testEvent](rec),
		logiface.WithWriter[*testEvent](rec),
		logiface.WithLevel[*testEvent](logiface.LevelTrace),
	)
	return typed.Logger(), rec
}

// testContext bounds a test that drives a runtime.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// pollUntil polls op, running rt between polls, until op resolves.
// Used by stepping tests to exercise the non-blocking path.
func pollUntil[R any](t *testing.T, rt *xchan.Runtime, op *xchan.Operation[R]) R {
	t.Helper()
	for i := 0; i < 1000; i++ {
		r, err := op.Poll()
		if err == nil {
			return r
		}
		for rt.Step() {
		}
	}
	t.Fatalf("operation did not resolve, state %v", op.State())
	panic("unreachable")
}
