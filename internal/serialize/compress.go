// Package serialize encodes registry manifests for network transfer.
// Used by the flight service to publish the function list in ListFlights.
package serialize

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compressor zstd-compresses manifest payloads. A Compressor is reusable
// across payloads and goroutines until closed.
type Compressor struct {
	encoder *zstd.Encoder
}

// NewCompressor returns a Compressor at SpeedDefault. The caller must close
// it to release the encoder.
func NewCompressor() (*Compressor, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return &Compressor{encoder: encoder}, nil
}

// Compress returns the zstd frame for data. Empty input yields an empty,
// non-nil slice.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	dst := make([]byte, 0, len(data)/2)
	return c.encoder.EncodeAll(data, dst), nil
}

// Close releases the underlying encoder. The Compressor must not be used
// afterwards.
func (c *Compressor) Close() error {
	if c.encoder != nil {
		return c.encoder.Close()
	}
	return nil
}

// Decompressor is the reading half of Compressor.
type Decompressor struct {
	decoder *zstd.Decoder
}

// NewDecompressor returns a Decompressor. The caller must close it to
// release the decoder.
func NewDecompressor() (*Decompressor, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Decompressor{decoder: decoder}, nil
}

// Decompress inflates a zstd frame produced by Compress.
func (d *Decompressor) Decompress(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return []byte{}, nil
	}
	decompressed, err := d.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return decompressed, nil
}

// Close releases the underlying decoder.
func (d *Decompressor) Close() {
	if d.decoder != nil {
		d.decoder.Close()
	}
}
