// Package compression compresses persisted ledger entries.
package compression

// Compressor is the codec applied to entry payloads before they reach
// the key-value store.
type Compressor interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// NoCompressor passes data through unchanged.
type NoCompressor struct{}

func (c *NoCompressor) Name() string { return "none" }

func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (c *NoCompressor) Decompress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
