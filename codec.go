// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import (
	"encoding/binary"
	"math"
)

// Codec lowers typed values into item slots of a raw region and lifts
// them back. Every value occupies exactly Size bytes.
// Channels treat a codec as opaque; generated bindings supply it.
type Codec[T any] interface {
	Size() int
	Lower(v T, dst []byte)
	Lift(src []byte) T
}

// CodecFunc adapts a pair of plain functions to Codec.
type CodecFunc[T any] struct {
	N         int
	LowerFunc func(v T, dst []byte)
	LiftFunc  func(src []byte) T
}

func (c CodecFunc[T]) Size() int             { return c.N }
func (c CodecFunc[T]) Lower(v T, dst []byte) { c.LowerFunc(v, dst) }
func (c CodecFunc[T]) Lift(src []byte) T     { return c.LiftFunc(src) }

// Fixed-width little-endian codecs.
var (
	Uint8   Codec[uint8]   = uint8Codec{}
	Bool    Codec[bool]    = boolCodec{}
	Int32   Codec[int32]   = int32Codec{}
	Uint32  Codec[uint32]  = uint32Codec{}
	Int64   Codec[int64]   = int64Codec{}
	Uint64  Codec[uint64]  = uint64Codec{}
	Float32 Codec[float32] = float32Codec{}
	Float64 Codec[float64] = float64Codec{}
)

type uint8Codec struct{}

func (uint8Codec) Size() int                 { return 1 }
func (uint8Codec) Lower(v uint8, dst []byte) { dst[0] = v }
func (uint8Codec) Lift(src []byte) uint8     { return src[0] }

type boolCodec struct{}

func (boolCodec) Size() int { return 1 }
func (boolCodec) Lower(v bool, dst []byte) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}
func (boolCodec) Lift(src []byte) bool { return src[0] != 0 }

type int32Codec struct{}

func (int32Codec) Size() int                 { return 4 }
func (int32Codec) Lower(v int32, dst []byte) { binary.LittleEndian.PutUint32(dst, uint32(v)) }
func (int32Codec) Lift(src []byte) int32     { return int32(binary.LittleEndian.Uint32(src)) }

type uint32Codec struct{}

func (uint32Codec) Size() int                  { return 4 }
func (uint32Codec) Lower(v uint32, dst []byte) { binary.LittleEndian.PutUint32(dst, v) }
func (uint32Codec) Lift(src []byte) uint32     { return binary.LittleEndian.Uint32(src) }

type int64Codec struct{}

func (int64Codec) Size() int                 { return 8 }
func (int64Codec) Lower(v int64, dst []byte) { binary.LittleEndian.PutUint64(dst, uint64(v)) }
func (int64Codec) Lift(src []byte) int64     { return int64(binary.LittleEndian.Uint64(src)) }

type uint64Codec struct{}

func (uint64Codec) Size() int                  { return 8 }
func (uint64Codec) Lower(v uint64, dst []byte) { binary.LittleEndian.PutUint64(dst, v) }
func (uint64Codec) Lift(src []byte) uint64     { return binary.LittleEndian.Uint64(src) }

type float32Codec struct{}

func (float32Codec) Size() int { return 4 }
func (float32Codec) Lower(v float32, dst []byte) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}
func (float32Codec) Lift(src []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src))
}

type float64Codec struct{}

func (float64Codec) Size() int { return 8 }
func (float64Codec) Lower(v float64, dst []byte) {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
}
func (float64Codec) Lift(src []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(src))
}
