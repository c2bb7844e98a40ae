package serialize

import (
	"fmt"

	"github.com/hugr-lab/udf-go/sig"
)

// EncodeManifest serializes the registry's signature manifest and compresses
// it with ZStandard for efficient transfer.
func EncodeManifest(reg *sig.Registry) ([]byte, error) {
	data, err := reg.Manifest()
	if err != nil {
		return nil, err
	}

	compressor, err := NewCompressor()
	if err != nil {
		return nil, err
	}
	defer compressor.Close()

	return compressor.Compress(data)
}

// DecodeManifest reverses EncodeManifest.
func DecodeManifest(data []byte) ([]sig.Sig, error) {
	decompressor, err := NewDecompressor()
	if err != nil {
		return nil, err
	}
	defer decompressor.Close()

	raw, err := decompressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress manifest: %w", err)
	}
	return sig.DecodeManifest(raw)
}
