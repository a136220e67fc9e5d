// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"github.com/joeycumines/logiface"
)

// defaultInboxCapacity is the bounded capacity of the runtime inbox used by
// foreign goroutines.
const defaultInboxCapacity = 64

// defaultChunkBytes is the target byte budget of one stream read.
const defaultChunkBytes = 4 * 1024

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeOptions)

type runtimeOptions struct {
	logger        *logiface.Logger[logiface.Event]
	inboxCapacity int
}

func resolveRuntimeOptions(opts []RuntimeOption) runtimeOptions {
	o := runtimeOptions{inboxCapacity: defaultInboxCapacity}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithLogger sets the structured logger of the runtime.
// A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) RuntimeOption {
	return func(o *runtimeOptions) {
		o.logger = logger
	}
}

// WithInboxCapacity sets the capacity of the inbox that carries Post calls
// into the loop. Non-positive values keep the default.
func WithInboxCapacity(n int) RuntimeOption {
	return func(o *runtimeOptions) {
		if n > 0 {
			o.inboxCapacity = n
		}
	}
}

// StreamOption configures a stream channel.
type StreamOption func(*streamOptions)

type streamOptions struct {
	chunkBytes    int
	chunkCapacity int
}

// capacity returns the number of items one read transfers for
// elements of the given size: the byte budget divided by the size,
// rounded up, unless an explicit capacity was configured.
func (o streamOptions) capacity(size int) int {
	if o.chunkCapacity > 0 {
		return o.chunkCapacity
	}
	if size <= 0 {
		size = 1
	}
	return ceiling(o.chunkBytes, size)
}

func resolveStreamOptions(opts []StreamOption) streamOptions {
	o := streamOptions{chunkBytes: defaultChunkBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithChunkBytes sets the target byte budget of one stream read.
// Non-positive values keep the default of 4 KiB.
func WithChunkBytes(n int) StreamOption {
	return func(o *streamOptions) {
		if n > 0 {
			o.chunkBytes = n
		}
	}
}

// WithChunkCapacity sets the number of items of one stream read directly,
// overriding WithChunkBytes.
func WithChunkCapacity(n int) StreamOption {
	return func(o *streamOptions) {
		if n > 0 {
			o.chunkCapacity = n
		}
	}
}

func ceiling(x, y int) int {
	q := x / y
	if x%y != 0 {
		q++
	}
	return q
}
