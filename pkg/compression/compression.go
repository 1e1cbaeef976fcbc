// Package compression wraps the klauspost/compress zstd codec used to
// shrink partial-index spill files before they hit disk. The final
// index file is never compressed under this scheme: its byte offsets
// must remain valid seek targets for the offset map, which a
// whole-file compressed stream cannot offer without decompressing from
// the start on every lookup.
package compression

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Level is the zstd compression level applied to spill files; 3
// balances ratio against the build's own CPU budget.
const Level = 3

// Compressor wraps a pre-built zstd encoder/decoder pair so repeated
// Compress/Decompress calls during a build don't pay setup cost per
// spill file.
type Compressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCompressor creates a Compressor ready for concurrent-free,
// sequential use by one build.
func NewCompressor() (*Compressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(Level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Compressor{enc: enc, dec: dec}, nil
}

// Compress zstd-compresses data.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return c.enc.EncodeAll(data, nil), nil
}

// Decompress reverses Compress.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	decoded, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decode zstd: %w", err)
	}
	return decoded, nil
}

// Close releases the encoder/decoder's background resources.
func (c *Compressor) Close() error {
	c.enc.Close()
	c.dec.Close()
	return nil
}
