package bits

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

type BitWriter struct {
	pos   int
	data  []byte
	order binary.ByteOrder
}

// NewEncodeBuffer writes into buf, which must be large enough for everything
// written to it.
func NewEncodeBuffer(buf []byte, order binary.ByteOrder) *BitWriter {
	return &BitWriter{
		data:  buf,
		order: order,
	}
}

func (w *BitWriter) Bytes() []byte {
	return w.data[:w.pos]
}

func (w *BitWriter) ensure(n int) {
	if w.pos+n > len(w.data) {
		panic(fmt.Sprintf("bit writer out of space on pos : %d, need %d, size : %d", w.pos, n, len(w.data)))
	}
}

func (w *BitWriter) Write(p []byte) (n int, err error) {
	w.ensure(len(p))

	n = copy(w.data[w.pos:], p)
	if n != len(p) {
		return 0, errors.New("not enough space")
	}
	w.pos += n

	return n, nil
}

func (w *BitWriter) WriteByte(u uint8) {
	w.ensure(1)
	w.data[w.pos] = u
	w.pos++
}

func (w *BitWriter) PutBool(v bool) {
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

func (w *BitWriter) PutUint16(v uint16) {
	w.ensure(2)
	w.order.PutUint16(w.data[w.pos:], v)
	w.pos += 2
}

func (w *BitWriter) PutUint32(v uint32) {
	w.ensure(4)
	w.order.PutUint32(w.data[w.pos:], v)
	w.pos += 4
}

func (w *BitWriter) PutUint64(v uint64) {
	w.ensure(8)
	w.order.PutUint64(w.data[w.pos:], v)
	w.pos += 8
}

func (w *BitWriter) PutInt64(v int64) {
	w.PutUint64(uint64(v))
}

func (w *BitWriter) PutFloat64(f float64) {
	w.PutUint64(math.Float64bits(f))
}
