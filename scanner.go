package mmapscan

import (
	"fmt"
	"log/slog"
	"os"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/Giulio2002/mmapscan/mmap"
)

// Scanner is a bounded, cursor-bearing view over a root buffer.
//
// The view bounds (offset, size) never change. The cursor and the state of
// the last match are the only mutable parts. Every Scanner derived from
// another one (Slice, Peek, Rest, Scan, Matched, ...) points straight at the
// root buffer with an absolute offset, so dropping an intermediate Scanner
// never affects its descendants.
//
// A Scanner is not safe for concurrent use. Distinct Scanners over the same
// buffer may be read from different goroutines.
type Scanner struct {
	buf    *buffer
	offset int64 // absolute offset into buf
	size   int64 // length of this view
	pos    int64 // cursor, 0 <= pos <= size

	matched bool
	match   MatchState
	names   []string // group names of the last successful pattern
}

// New creates a Scanner from src, which must be an *os.File, a []byte, a
// string, an *mmap.Region or a *Scanner. Any other source fails with
// ErrInvalidSource.
//
// Files are mapped read-only over the requested window. Scanners created
// from a Scanner share its root buffer and are offset from its view.
func New(src any, opts ...Option) (*Scanner, error) {
	switch v := src.(type) {
	case *Scanner:
		return FromScanner(v, opts...)
	case *os.File:
		return FromFile(v, opts...)
	case *mmap.Region:
		return FromRegion(v, opts...)
	case []byte:
		return FromBytes(v, opts...)
	case string:
		return FromString(v, opts...)
	}
	return nil, &Error{
		Code:    TypeErr,
		Message: fmt.Sprintf("wrong argument type %T (expected *os.File, []byte, string, *mmap.Region or *Scanner)", src),
	}
}

// FromBytes creates a Scanner over b without copying it. The caller must not
// modify b while scanners over it are in use.
func FromBytes(b []byte, opts ...Option) (*Scanner, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	off, size, err := c.window(int64(len(b)))
	if err != nil {
		return nil, err
	}
	return &Scanner{buf: newBytesBuffer(b), offset: off, size: size}, nil
}

// FromString creates a Scanner over s without copying it.
func FromString(s string, opts ...Option) (*Scanner, error) {
	return FromBytes(unsafe.Slice(unsafe.StringData(s), len(s)), opts...)
}

// FromFile maps the requested window of f read-only and scans it. The
// offset is passed to mmap(2) as is, so it must be page-aligned. The
// mapping does not depend on f staying open.
func FromFile(f *os.File, opts ...Option) (*Scanner, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	length := mmap.ToEnd
	if c.hasLength {
		length = c.length
	}
	r, err := mmap.Map(f, c.offset, length, mmap.WithLogger(c.logger))
	if err != nil {
		return nil, fromMmap(err)
	}
	if c.hasAccess {
		if err := r.Advise(c.access); err != nil {
			r.Unmap()
			return nil, fromMmap(err)
		}
	}
	c.logger.Debug("mmapscan: scanner over mapped file",
		slog.String("file", f.Name()),
		slog.Int64("offset", c.offset),
		slog.Int64("size", r.Size()))
	return &Scanner{buf: newRegionBuffer(r), size: r.Size()}, nil
}

// OpenFile opens path, maps it and closes the descriptor.
func OpenFile(path string, opts ...Option) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WrapError(SystemErr, err)
	}
	defer f.Close()
	return FromFile(f, opts...)
}

// FromRegion creates a Scanner over an existing mapping. The region stays
// owned by the caller: unmapping it makes every scanner over it report
// ErrAlreadyUnmapped.
func FromRegion(r *mmap.Region, opts ...Option) (*Scanner, error) {
	if r == nil {
		return nil, &Error{Code: TypeErr, Message: "nil region"}
	}
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	off, size, err := c.window(r.Size())
	if err != nil {
		return nil, err
	}
	return &Scanner{buf: newRegionBuffer(r), offset: off, size: size}, nil
}

// FromScanner creates a Scanner over a window of parent's view. The new
// scanner references parent's root buffer, not parent itself.
func FromScanner(parent *Scanner, opts ...Option) (*Scanner, error) {
	if parent == nil {
		return nil, &Error{Code: TypeErr, Message: "nil scanner"}
	}
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	off, size, err := c.window(parent.size)
	if err != nil {
		return nil, err
	}
	return parent.slice(off, size), nil
}

// slice returns a sub-view; the caller guarantees off+n <= s.size.
func (s *Scanner) slice(off, n int64) *Scanner {
	return &Scanner{buf: s.buf, offset: s.offset + off, size: n}
}

// sub is slice with the offset check and length clamp applied.
func (s *Scanner) sub(off, n int64) (*Scanner, error) {
	if off > s.size {
		return nil, rangeError("length out of range: %d > %d", off, s.size)
	}
	if n > s.size-off {
		n = s.size - off
	}
	return s.slice(off, n), nil
}

// Size returns the length of the view in bytes.
func (s *Scanner) Size() int64 {
	return s.size
}

// Len is an alias for Size.
func (s *Scanner) Len() int64 {
	return s.size
}

// Offset returns the absolute offset of the view in its root buffer.
func (s *Scanner) Offset() int64 {
	return s.offset
}

// Region returns the mapping backing this scanner, or nil when it scans
// in-memory bytes.
func (s *Scanner) Region() *mmap.Region {
	if s.buf.kind == regionBuffer {
		return s.buf.region
	}
	return nil
}

// Slice returns a view of n bytes starting at pos. It does not move the
// cursor. n is clamped to the bytes available; pos past the end is an error.
func (s *Scanner) Slice(pos, n int64) (*Scanner, error) {
	if pos < 0 {
		return nil, rangeError("offset out of range: %d", pos)
	}
	if n < 0 {
		return nil, rangeError("length out of range: %d", n)
	}
	return s.sub(pos, n)
}

// Peek returns a view of up to n bytes at the cursor without moving it.
// At the end of the view it returns an empty scanner.
func (s *Scanner) Peek(n int64) (*Scanner, error) {
	if n < 0 {
		return nil, rangeError("length out of range: %d", n)
	}
	return s.sub(s.pos, n)
}

// Rest returns a view from the cursor to the end.
func (s *Scanner) Rest() *Scanner {
	return s.slice(s.pos, s.size-s.pos)
}

// Bytes returns an owned copy of the view's bytes.
func (s *Scanner) Bytes() ([]byte, error) {
	p, err := s.buf.bytes(s.offset, s.size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out, nil
}

// Text returns the view's bytes as a string.
func (s *Scanner) Text() (string, error) {
	p, err := s.buf.bytes(s.offset, s.size)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// Sum64 returns the xxhash of the view's bytes, computed in place.
func (s *Scanner) Sum64() (uint64, error) {
	p, err := s.buf.bytes(s.offset, s.size)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(p), nil
}

// String describes the scanner without reading its bytes.
func (s *Scanner) String() string {
	return fmt.Sprintf("mmapscan.Scanner{offset: %d, size: %d, pos: %d}", s.offset, s.size, s.pos)
}

// Pos returns the cursor position.
func (s *Scanner) Pos() int64 {
	return s.pos
}

// SetPos moves the cursor. p must lie in [0, Size()].
func (s *Scanner) SetPos(p int64) error {
	if p < 0 {
		return rangeError("out of range: %d", p)
	}
	if p > s.size {
		return rangeError("out of range: %d > %d", p, s.size)
	}
	s.pos = p
	return nil
}

// EOS reports whether the cursor is at the end of the view.
func (s *Scanner) EOS() bool {
	return s.pos >= s.size
}

// Reset moves the cursor to the start and forgets the last match.
func (s *Scanner) Reset() {
	s.pos = 0
	s.clearMatch()
}
