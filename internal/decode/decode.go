// Package decode expands compressed streams into owned byte buffers so they
// can be scanned like in-memory sources.
package decode

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a compression format.
type Codec uint8

const (
	// None passes the stream through unchanged.
	None Codec = iota
	// Zstd is a Zstandard frame.
	Zstd
	// S2 is an S2 (Snappy-compatible) stream.
	S2
	// Gzip is a gzip member.
	Gzip
	// LZ4 is an LZ4 frame.
	LZ4
	// Auto detects the codec from the stream's magic bytes, falling back to None.
	Auto
)

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case Gzip:
		return "gzip"
	case LZ4:
		return "lz4"
	case Auto:
		return "auto"
	}
	return fmt.Sprintf("codec(%d)", uint8(c))
}

// ErrUnknownCodec is returned for codec values outside the defined set.
var ErrUnknownCodec = errors.New("decode: unknown codec")

var (
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic   = []byte{0x1f, 0x8b}
	lz4Magic    = []byte{0x04, 0x22, 0x4d, 0x18}
	s2Magic     = []byte("\xff\x06\x00\x00S2sTwO")
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

// Detect guesses the codec from the first bytes of a stream.
func Detect(head []byte) Codec {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4
	case bytes.HasPrefix(head, s2Magic), bytes.HasPrefix(head, snappyMagic):
		return S2
	}
	return None
}

// zstdDecoderPool pools zstd decoders; the klauspost decoder is designed to
// be reused after warmup.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

// All reads r to the end and returns the decompressed bytes.
func All(r io.Reader, codec Codec) ([]byte, error) {
	if codec == Auto {
		br := bufio.NewReader(r)
		head, err := br.Peek(len(s2Magic))
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		codec = Detect(head)
		r = br
	}

	switch codec {
	case None:
		return io.ReadAll(r)
	case Zstd:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		decoder := zstdDecoderPool.Get().(*zstd.Decoder)
		defer zstdDecoderPool.Put(decoder)
		out, err := decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	case S2:
		out, err := io.ReadAll(s2.NewReader(r))
		if err != nil {
			return nil, fmt.Errorf("s2: %w", err)
		}
		return out, nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil
	case LZ4:
		out, err := io.ReadAll(lz4.NewReader(r))
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		return out, nil
	}
	return nil, ErrUnknownCodec
}
