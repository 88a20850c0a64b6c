package mmapscan

import (
	"io"
	"log/slog"
	"os"

	"github.com/Giulio2002/mmapscan/internal/decode"
)

// Codec selects how FromCompressed decodes its input.
type Codec = decode.Codec

// Supported codecs
const (
	CodecNone = decode.None
	CodecZstd = decode.Zstd
	CodecS2   = decode.S2
	CodecGzip = decode.Gzip
	CodecLZ4  = decode.LZ4
	CodecAuto = decode.Auto
)

// FromCompressed decodes r into an owned buffer and scans it. Compressed
// data cannot be mapped, so this is the one constructor that holds a full
// copy of its source; everything derived from the scanner is zero-copy
// again.
func FromCompressed(r io.Reader, codec Codec, opts ...Option) (*Scanner, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	data, err := decode.All(r, codec)
	if err != nil {
		return nil, WrapError(DecodeErr, err)
	}
	c.logger.Debug("mmapscan: decoded compressed source",
		slog.String("codec", codec.String()),
		slog.Int("size", len(data)))
	off, size, err := c.window(int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &Scanner{buf: newBytesBuffer(data), offset: off, size: size}, nil
}

// OpenCompressed opens path and scans its decoded contents. The codec is
// detected from the file's magic bytes.
func OpenCompressed(path string, opts ...Option) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WrapError(SystemErr, err)
	}
	defer f.Close()
	return FromCompressed(f, CodecAuto, opts...)
}
