package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

func CompressLz4(src []byte, output *bytes.Buffer) error {
	zw := lz4.NewWriter(output)

	if _, err := zw.Write(src); err != nil {
		return fmt.Errorf("lz4 write: %w", err)
	}

	if flushErr := zw.Flush(); flushErr != nil {
		return flushErr
	}

	return zw.Close()
}

// DecompressLz4 inflates a frame produced by CompressLz4. sizeHint presizes
// the output buffer.
func DecompressLz4(src []byte, sizeHint int) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(src))

	out := bytes.NewBuffer(make([]byte, 0, sizeHint))
	if _, err := io.Copy(out, zr); err != nil {
		return nil, fmt.Errorf("lz4 read: %w", err)
	}

	return out.Bytes(), nil
}
