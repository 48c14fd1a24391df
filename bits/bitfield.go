package bits

import "math/bits"

const BitfieldWords = 64 * 8

// Bitfield holds one bit per row of a leaf, up to schema.BlockRowsSize rows.
type Bitfield [BitfieldWords]uint64

const BitfieldSize = BitfieldWords * 64

func (b *Bitfield) Set(bit int) {
	word := bit >> 6 // bit / 64
	mask := uint64(1) << (bit & 63)
	b[word] |= mask
}

func (b *Bitfield) Clear(bit int) {
	word := bit >> 6
	mask := uint64(1) << (bit & 63)
	b[word] &^= mask
}

func (b *Bitfield) SetTo(bit int, v bool) {
	word := bit >> 6
	mask := uint64(1) << (bit & 63)
	if v {
		b[word] |= mask // set
	} else {
		b[word] &^= mask // clear
	}
}

func (b *Bitfield) Get(bit int) bool {
	word := bit >> 6
	return (b[word]>>(bit&63))&1 == 1
}

func (b *Bitfield) Reset() {
	clear(b[:])
}

// SetFirst sets bits [0, n) and clears the rest.
func (b *Bitfield) SetFirst(n int) {
	b.Reset()

	full := n >> 6
	for i := 0; i < full; i++ {
		b[i] = ^uint64(0)
	}
	if rem := n & 63; rem != 0 {
		b[full] = (uint64(1) << rem) - 1
	}
}

// And keeps only the bits also set in other.
func (b *Bitfield) And(other *Bitfield) {
	for i := range b {
		b[i] &= other[i]
	}
}

// NextSet returns the lowest set bit in [from, limit), or -1.
func (b *Bitfield) NextSet(from, limit int) int {
	if from >= limit {
		return -1
	}

	arr := b[:]
	wi := from >> 6
	w := arr[wi] &^ ((uint64(1) << (from & 63)) - 1)

	for {
		if w != 0 {
			bit := wi<<6 + bits.TrailingZeros64(w)
			if bit >= limit {
				return -1
			}
			return bit
		}
		wi++
		if wi<<6 >= limit || wi >= len(arr) {
			return -1
		}
		w = arr[wi]
	}
}

// NextClear returns the lowest clear bit in [from, limit), or -1.
func (b *Bitfield) NextClear(from, limit int) int {
	if from >= limit {
		return -1
	}

	arr := b[:]
	wi := from >> 6
	w := ^arr[wi] &^ ((uint64(1) << (from & 63)) - 1)

	for {
		if w != 0 {
			bit := wi<<6 + bits.TrailingZeros64(w)
			if bit >= limit {
				return -1
			}
			return bit
		}
		wi++
		if wi<<6 >= limit || wi >= len(arr) {
			return -1
		}
		w = ^arr[wi]
	}
}

func (b *Bitfield) Count() int {
	c := 0
	for i := 0; i < len(b); i += 4 {
		c += bits.OnesCount64(b[i+0])
		c += bits.OnesCount64(b[i+1])
		c += bits.OnesCount64(b[i+2])
		c += bits.OnesCount64(b[i+3])
	}
	return c
}
