// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

// NewStream creates a channel carrying an ordered sequence of values in
// chunks. The reader's chunk capacity is derived from the chunk size in
// bytes and the codec's value size unless WithChunkCapacity overrides it.
//
//	w, r := xchan.NewStream(xchan.Int32, xchan.WithChunkCapacity(2))
//	_ = xchan.Spawn(rt, func() kont.Eff[xchan.StreamResult] {
//		return xchan.AwaitThen(w.Write([]int32{1, 2}).Operation, kont.Pure(xchan.Complete(2)))
//	})
//	chunk, _ := xchan.BlockOn(ctx, rt, r.Next().Operation)
func NewStream[T any](codec Codec[T], opts ...StreamOption) (*StreamWriter[T], *StreamReader[T]) {
	o := resolveStreamOptions(opts)
	size := codec.Size()
	capacity := o.capacity(size)
	h := NewHandle()
	w := &StreamWriter[T]{handle: h, codec: codec}
	r := &StreamReader[T]{
		handle:   h.Clone(),
		codec:    codec,
		capacity: capacity,
		scratch:  make([]byte, capacity*size),
	}
	return w, r
}
