package bits

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/google/uuid"
)

var (
	ErrReadMismatch = errors.New("read size mismatch")
)

const MaxBinReaderBufferSize = 16

type BitsReader struct {
	readBuffer [MaxBinReaderBufferSize]byte

	buf   io.Reader
	order binary.ByteOrder
}

func NewReader(buf io.Reader, order binary.ByteOrder) *BitsReader {
	return &BitsReader{buf: buf, order: order}
}

func (r *BitsReader) readNextBytesIntoReadBuffer(size int) error {
	return r.ReadBytes(size, r.readBuffer[:size])
}

func (r *BitsReader) ReadU8() (uint8, error) {
	if err := r.readNextBytesIntoReadBuffer(1); err != nil {
		return 0, err
	}
	return r.readBuffer[0], nil
}

func (r *BitsReader) ReadBool() (bool, error) {
	u, err := r.ReadU8()
	return u != 0, err
}

func (r *BitsReader) ReadU16() (uint16, error) {
	if err := r.readNextBytesIntoReadBuffer(2); err != nil {
		return 0, err
	}
	return r.order.Uint16(r.readBuffer[:2]), nil
}

func (r *BitsReader) ReadU32() (uint32, error) {
	if err := r.readNextBytesIntoReadBuffer(4); err != nil {
		return 0, err
	}
	return r.order.Uint32(r.readBuffer[:4]), nil
}

func (r *BitsReader) ReadU64() (uint64, error) {
	if err := r.readNextBytesIntoReadBuffer(8); err != nil {
		return 0, err
	}
	return r.order.Uint64(r.readBuffer[:8]), nil
}

func (r *BitsReader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *BitsReader) ReadF64() (float64, error) {
	u, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

func (r *BitsReader) ReadUUID() (result uuid.UUID, err error) {
	err = r.ReadBytes(16, result[:])
	return result, err
}

func (r *BitsReader) ReadBytes(n int, out []byte) error {
	readBytes, err := io.ReadFull(r.buf, out[:n])
	if err != nil {
		if readBytes != n {
			return ErrReadMismatch
		}
		return err
	}
	return nil
}
