// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

// Address is the location of a caller-owned memory region.
// Channels borrow the region for the duration of one transfer and never
// copy it. The zero Address denotes "no region".
type Address struct {
	mem []byte
}

// AddressOf returns the Address of mem.
func AddressOf(mem []byte) Address {
	return Address{mem: mem}
}

// IsZero reports whether a denotes no region.
func (a Address) IsZero() bool {
	return a.mem == nil
}

// Bytes returns the whole region.
func (a Address) Bytes() []byte {
	return a.mem
}

// Len returns the region length in bytes.
func (a Address) Len() int {
	return len(a.mem)
}

// Slot returns the i-th item slot of width size within the region.
// Panics if the slot lies outside the region.
func (a Address) Slot(i, size int) []byte {
	if i < 0 || size < 0 || (size > 0 && (len(a.mem) < size || i > (len(a.mem)-size)/size)) {
		panic("xchan: slot out of range")
	}
	off := i * size
	return a.mem[off : off+size : off+size]
}

// Buffer is a transfer unit: an Address, a capacity in items and a
// logical size.
//
// A *Buffer has exactly one owner. Passing it to [Handle.StartReading] or
// [Handle.FinishWriting] moves the region to the channel; every later use
// of the old *Buffer panics. The receiving side gets a fresh *Buffer.
type Buffer struct {
	addr     Address
	capacity uint64
	size     uint64
	sized    bool
	moved    bool
}

// NewBuffer returns a Buffer over addr able to hold capacity items.
func NewBuffer(addr Address, capacity uint64) *Buffer {
	return &Buffer{addr: addr, capacity: capacity}
}

// Address returns the region of b.
func (b *Buffer) Address() Address {
	b.check()
	return b.addr
}

// Capacity returns the number of items b can hold.
func (b *Buffer) Capacity() uint64 {
	b.check()
	return b.capacity
}

// Size returns the logical number of items in b.
func (b *Buffer) Size() uint64 {
	b.check()
	return b.size
}

// SetSize sets the logical size of b. It may be called once per transfer.
// Panics if n exceeds the capacity.
func (b *Buffer) SetSize(n uint64) {
	b.check()
	if n > b.capacity {
		panic("xchan: buffer size exceeds capacity")
	}
	if b.sized {
		panic("xchan: buffer size already set for this transfer")
	}
	b.size = n
	b.sized = true
}

// Moved reports whether b has been handed off.
func (b *Buffer) Moved() bool {
	return b.moved
}

func (b *Buffer) check() {
	if b.moved {
		panic("xchan: use of buffer after handoff")
	}
}

// handoff moves the region out of b into a new Buffer.
// The size bookkeeping travels with the region; the sized flag is cleared
// when the receiver starts a new transfer.
func (b *Buffer) handoff() *Buffer {
	b.check()
	nb := &Buffer{addr: b.addr, capacity: b.capacity, size: b.size, sized: b.sized}
	b.addr = Address{}
	b.moved = true
	return nb
}

// rearm prepares b for a new transfer.
func (b *Buffer) rearm() {
	b.size = 0
	b.sized = false
}
