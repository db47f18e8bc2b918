package compress

import (
	"fmt"

	"github.com/emrgen/reader/internal/model"
)

// Compress encodes and decodes opaque payloads.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

var (
	_ Compress = Nop{}
	_ Compress = GZip{}
	_ Compress = Brotli{}
	_ Compress = LZ4{}
)

// ByName returns the codec registered under name. An empty name means no compression.
func ByName(name string) (Compress, error) {
	switch name {
	case "", "nop", "none":
		return NewNop(), nil
	case "gzip":
		return NewGZip(), nil
	case "brotli":
		return NewBrotli(), nil
	case "lz4":
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", model.ErrValidation, name)
	}
}
