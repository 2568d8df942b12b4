package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4"
)

const (
	blockRaw byte = 0
	blockLZ4 byte = 1
)

// LZ4Compressor block-compresses payloads. The stored form is a flag
// byte, the uncompressed length, then the block; incompressible input
// is stored raw.
type LZ4Compressor struct{}

func (c *LZ4Compressor) Name() string { return "lz4" }

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	out := make([]byte, 5+lz4.CompressBlockBound(len(data)))
	out[0] = blockLZ4
	binary.BigEndian.PutUint32(out[1:5], uint32(len(data)))

	n, err := lz4.CompressBlock(data, out[5:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if n == 0 || n >= len(data) {
		out[0] = blockRaw
		return append(out[:5], data...), nil
	}
	return out[:5+n], nil
}

func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	if len(data) < 5 {
		return nil, fmt.Errorf("lz4 payload too short")
	}
	size := binary.BigEndian.Uint32(data[1:5])
	out := make([]byte, size)
	switch data[0] {
	case blockRaw:
		if int(size) != len(data)-5 {
			return nil, fmt.Errorf("lz4 raw block length mismatch")
		}
		copy(out, data[5:])
		return out, nil
	case blockLZ4:
		n, err := lz4.UncompressBlock(data[5:], out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		return out[:n], nil
	default:
		return nil, fmt.Errorf("lz4 unknown block flag %d", data[0])
	}
}
